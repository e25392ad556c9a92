package api

import (
	"encoding/json"
	"net/http"

	"github.com/SkillForge-Platform/SkillForge/backend/errs"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type questionHandler struct {
	responder Responder
	logger    zerolog.Logger
	questions QuestionStore
}

func newQuestionHandler(questions QuestionStore) questionHandler {
	logger := log.With().Str("handlerName", "questionHandler").Logger()

	return questionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		questions: questions,
	}
}

type questionRequest struct {
	Level        *models.Level         `json:"level"`
	Domain       *models.ProjectDomain `json:"domain"`
	QuestionText *string               `json:"question_text"`
	Type         *models.QuestionType  `json:"type"`
	Difficulty   *int                  `json:"difficulty"`
}

// getQuestions lists assessment questions, optionally filtered by level
// and domain.
// @Summary List questions
// @Tags Questions
// @Produce json
// @Param level query string false "Filter by level"
// @Param domain query string false "Filter by domain"
// @Success 200 {object} map[string]any "Questions with total count"
// @Failure 422 {object} ErrorResponse "Validation failure - Unknown level or domain"
// @Router /admin/questions [get]
func (h questionHandler) getQuestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var level models.Level
		if raw := r.URL.Query().Get("level"); raw != "" {
			level = models.Level(raw)
			if !level.Valid() {
				h.responder.WriteError(w, errs.NewValidationFieldError("level", "unknown level"))
				return
			}
		}

		var domain models.ProjectDomain
		if raw := r.URL.Query().Get("domain"); raw != "" {
			domain = models.ProjectDomain(raw)
			if !domain.Valid() {
				h.responder.WriteError(w, errs.NewValidationFieldError("domain", "unknown domain"))
				return
			}
		}

		questions, err := h.questions.FindAll(level, domain)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "questions", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"questions": questions,
			"total":     len(questions),
		})
	}
}

// createQuestion adds a question to the assessment bank
// @Summary Create question
// @Tags Questions
// @Accept json
// @Produce json
// @Param question body questionRequest true "Question data"
// @Success 201 {object} models.Question "Created question"
// @Failure 422 {object} ErrorResponse "Validation failure"
// @Router /admin/questions [post]
func (h questionHandler) createQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		question := models.Question{
			Difficulty: 1,
		}
		applyQuestionRequest(&question, req)

		if err := question.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.questions.Add(&question); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "question", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, question)
	}
}

// updateQuestion replaces the supplied fields of an existing question
// @Summary Update question
// @Tags Questions
// @Accept json
// @Produce json
// @Param questionID path string true "Question ID" format(uuid)
// @Param question body questionRequest true "Fields to update"
// @Success 200 {object} models.Question "Updated question"
// @Failure 404 {object} ErrorResponse "Not Found - Question not found"
// @Router /admin/questions/{questionID} [put]
func (h questionHandler) updateQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question, loadErr := h.loadQuestion(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		var req questionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		applyQuestionRequest(question, req)

		if err := question.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.questions.Update(question); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "question", err))
			return
		}

		h.responder.WriteJSON(w, question)
	}
}

// deleteQuestion removes a question from the bank
// @Summary Delete question
// @Tags Questions
// @Produce json
// @Param questionID path string true "Question ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Question not found"
// @Router /admin/questions/{questionID} [delete]
func (h questionHandler) deleteQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question, loadErr := h.loadQuestion(r)
		if loadErr != nil {
			h.responder.WriteError(w, loadErr)
			return
		}

		if err := h.questions.Delete(question.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "question", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"message": "question deleted successfully",
		})
	}
}

func (h questionHandler) loadQuestion(r *http.Request) (*models.Question, error) {
	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid questionID")
	}

	question, err := h.questions.FindByID(questionID)
	if err != nil {
		return nil, wrapDatabaseError("find", "question", err)
	}
	if question == nil {
		return nil, errs.NewNotFoundError("question")
	}
	return question, nil
}

func applyQuestionRequest(question *models.Question, req questionRequest) {
	if req.Level != nil {
		question.Level = *req.Level
	}
	if req.Domain != nil {
		question.Domain = *req.Domain
	}
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.Type != nil {
		question.Type = *req.Type
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
}
