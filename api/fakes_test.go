package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SkillForge-Platform/SkillForge/backend/database"
	"github.com/SkillForge-Platform/SkillForge/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// In-memory store fakes. Mutexes matter: the guarded-transition tests
// exercise losing writers, and handlers run fakes from racing goroutines.

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	// assignment count per project, for the delete guard
	assignmentCount map[uuid.UUID]int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects:        make(map[uuid.UUID]*models.Project),
		assignmentCount: make(map[uuid.UUID]int),
	}
}

func (s *fakeProjectStore) FindByOwner(ownerID uuid.UUID, status models.ProjectStatus) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Project
	for _, p := range s.projects {
		if p.OwnerID != ownerID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakeProjectStore) Add(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *fakeProjectStore) Update(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *fakeProjectStore) UpdateStatus(id uuid.UUID, status models.ProjectStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (s *fakeProjectStore) DeleteWithMilestones(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assignmentCount[id] > 0 {
		return database.ErrHasAssignments
	}
	delete(s.projects, id)
	return nil
}

type fakeAssignmentStore struct {
	mu          sync.Mutex
	assignments map[uuid.UUID]*models.Assignment
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{assignments: make(map[uuid.UUID]*models.Assignment)}
}

func (s *fakeAssignmentStore) Add(assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	copied := *assignment
	s.assignments[assignment.ID] = &copied
	return nil
}

func (s *fakeAssignmentStore) FindByID(id uuid.UUID) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (s *fakeAssignmentStore) FindNonDeclined(projectID, studentID uuid.UUID) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.ProjectID == projectID && a.StudentID == studentID && a.Status != models.AssignmentDeclined {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeAssignmentStore) FindByProject(projectID uuid.UUID) ([]*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Assignment
	for _, a := range s.assignments {
		if a.ProjectID == projectID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) FindByStudent(studentID uuid.UUID, status models.AssignmentStatus) ([]*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Assignment
	for _, a := range s.assignments {
		if a.StudentID != studentID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeAssignmentStore) TransitionStatus(id uuid.UUID, from []models.AssignmentStatus, to models.AssignmentStatus, extra map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, f := range from {
		if a.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	a.Status = to
	for key, value := range extra {
		switch key {
		case "assigned_at":
			t := value.(time.Time)
			a.AssignedAt = &t
		case "completed_at":
			t := value.(time.Time)
			a.CompletedAt = &t
		case "feedback":
			a.Feedback, _ = value.(*string)
		case "rating":
			a.Rating, _ = value.(*int)
		}
	}
	return true, nil
}

func (s *fakeAssignmentStore) SetStudentFeedback(id uuid.UUID, feedback *string, rating *int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok || a.Status != models.AssignmentCompleted {
		return false, nil
	}
	a.StudentFeedback = feedback
	a.StudentRating = rating
	return true, nil
}

// setStatus is a test hook for simulating state changed behind a handler's back.
func (s *fakeAssignmentStore) setStatus(id uuid.UUID, status models.AssignmentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.assignments[id]; ok {
		a.Status = status
	}
}

type fakeMilestoneStore struct {
	mu         sync.Mutex
	milestones map[uuid.UUID]*models.Milestone
	// milestones that have at least one submission block deletion
	withSubmissions map[uuid.UUID]bool
}

func newFakeMilestoneStore() *fakeMilestoneStore {
	return &fakeMilestoneStore{
		milestones:      make(map[uuid.UUID]*models.Milestone),
		withSubmissions: make(map[uuid.UUID]bool),
	}
}

func (s *fakeMilestoneStore) FindByProject(projectID uuid.UUID) ([]*models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Milestone
	for _, m := range s.milestones {
		if m.ProjectID == projectID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeMilestoneStore) FindByID(id uuid.UUID) (*models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.milestones[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (s *fakeMilestoneStore) Add(milestone *models.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if milestone.ID == uuid.Nil {
		milestone.ID = uuid.New()
	}
	copied := *milestone
	s.milestones[milestone.ID] = &copied
	return nil
}

func (s *fakeMilestoneStore) Update(milestone *models.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *milestone
	s.milestones[milestone.ID] = &copied
	return nil
}

func (s *fakeMilestoneStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.withSubmissions[id] {
		return database.ErrHasSubmissions
	}
	delete(s.milestones, id)
	return nil
}

type fakeSubmissionStore struct {
	mu          sync.Mutex
	submissions map[uuid.UUID]*models.MilestoneSubmission
	assignments *fakeAssignmentStore
	milestones  *fakeMilestoneStore
}

func newFakeSubmissionStore(assignments *fakeAssignmentStore, milestones *fakeMilestoneStore) *fakeSubmissionStore {
	return &fakeSubmissionStore{
		submissions: make(map[uuid.UUID]*models.MilestoneSubmission),
		assignments: assignments,
		milestones:  milestones,
	}
}

func (s *fakeSubmissionStore) Submit(submission *models.MilestoneSubmission) (*models.MilestoneSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row *models.MilestoneSubmission
	for _, existing := range s.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.MilestoneID == submission.MilestoneID {
			row = existing
			break
		}
	}
	if row == nil {
		row = &models.MilestoneSubmission{
			ID:           uuid.New(),
			AssignmentID: submission.AssignmentID,
			MilestoneID:  submission.MilestoneID,
		}
		s.submissions[row.ID] = row
	} else {
		row.Version++
	}
	row.AnswerText = submission.AnswerText
	row.AttachmentURL = submission.AttachmentURL
	row.Status = models.SubmissionPending
	row.ReviewerFeedback = nil
	row.ReviewedBy = nil
	row.ReviewedAt = nil

	s.assignments.TransitionStatus(submission.AssignmentID,
		[]models.AssignmentStatus{models.AssignmentAccepted}, models.AssignmentActive, nil)

	copied := *row
	return &copied, nil
}

func (s *fakeSubmissionStore) FindByID(id uuid.UUID) (*models.MilestoneSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (s *fakeSubmissionStore) FindByAssignment(assignmentID uuid.UUID) ([]*models.MilestoneSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.MilestoneSubmission
	for _, sub := range s.submissions {
		if sub.AssignmentID == assignmentID {
			copied := *sub
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeSubmissionStore) FindForAdmin(status models.SubmissionStatus, projectID *uuid.UUID) ([]*models.MilestoneSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.MilestoneSubmission
	for _, sub := range s.submissions {
		if status != "" && sub.Status != status {
			continue
		}
		if projectID != nil {
			milestone, _ := s.milestones.FindByID(sub.MilestoneID)
			if milestone == nil || milestone.ProjectID != *projectID {
				continue
			}
		}
		copied := *sub
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeSubmissionStore) Review(id uuid.UUID, expectedVersion int, status models.SubmissionStatus, feedback *string, reviewerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok || sub.Version != expectedVersion {
		return false, nil
	}
	now := time.Now()
	sub.Status = status
	sub.ReviewerFeedback = feedback
	sub.ReviewedBy = &reviewerID
	sub.ReviewedAt = &now
	sub.Version++
	return true, nil
}

// bumpVersion is a test hook simulating a review that landed first.
func (s *fakeSubmissionStore) bumpVersion(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.submissions[id]; ok {
		sub.Version++
	}
}

type fakePortfolioStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.PortfolioItem
}

func newFakePortfolioStore() *fakePortfolioStore {
	return &fakePortfolioStore{items: make(map[uuid.UUID]*models.PortfolioItem)}
}

func (s *fakePortfolioStore) FindByStudent(studentID uuid.UUID) ([]*models.PortfolioItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PortfolioItem
	for _, item := range s.items {
		if item.StudentID == studentID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakePortfolioStore) FindByID(id uuid.UUID) (*models.PortfolioItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (s *fakePortfolioStore) FindByAssignment(assignmentID uuid.UUID) (*models.PortfolioItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.SourceAssignmentID == assignmentID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakePortfolioStore) Add(item *models.PortfolioItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *fakePortfolioStore) Update(item *models.PortfolioItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *fakePortfolioStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*models.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[uuid.UUID]*models.Question)}
}

func (s *fakeQuestionStore) FindAll(level models.Level, domain models.ProjectDomain) ([]*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Question
	for _, q := range s.questions {
		if level != "" && q.Level != level {
			continue
		}
		if domain != "" && q.Domain != domain {
			continue
		}
		copied := *q
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeQuestionStore) FindByID(id uuid.UUID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (s *fakeQuestionStore) Add(question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	copied := *question
	s.questions[question.ID] = &copied
	return nil
}

func (s *fakeQuestionStore) Update(question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *question
	s.questions[question.ID] = &copied
	return nil
}

func (s *fakeQuestionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	return nil
}

type fakeIdentity struct {
	mu    sync.Mutex
	roles map[uuid.UUID]models.Role
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{roles: make(map[uuid.UUID]models.Role)}
}

func (f *fakeIdentity) register(id uuid.UUID, role models.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[id] = role
}

func (f *fakeIdentity) UserHasRole(_ context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[userID] == role, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	invited []uuid.UUID
}

func (f *fakeNotifier) AssignmentInvited(assignment models.Assignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invited = append(f.invited, assignment.ID)
}

// testEnv bundles the fakes with a fully routed in-memory API.
type testEnv struct {
	router      *chi.Mux
	projects    *fakeProjectStore
	assignments *fakeAssignmentStore
	milestones  *fakeMilestoneStore
	submissions *fakeSubmissionStore
	portfolios  *fakePortfolioStore
	questions   *fakeQuestionStore
	identity    *fakeIdentity
	notifier    *fakeNotifier
}

func newTestEnv() *testEnv {
	projects := newFakeProjectStore()
	assignments := newFakeAssignmentStore()
	milestones := newFakeMilestoneStore()
	submissions := newFakeSubmissionStore(assignments, milestones)
	portfolios := newFakePortfolioStore()
	questions := newFakeQuestionStore()
	identity := newFakeIdentity()
	notifier := &fakeNotifier{}

	handlers := initializeHandlers(Stores{
		Projects:    projects,
		Assignments: assignments,
		Milestones:  milestones,
		Submissions: submissions,
		Portfolios:  portfolios,
		Questions:   questions,
		Identity:    identity,
		Notifier:    notifier,
	})

	router := chi.NewRouter()
	setupRoutes(router, handlers, newAuthMiddleware(testSecret), nil, 0, 0)

	return &testEnv{
		router:      router,
		projects:    projects,
		assignments: assignments,
		milestones:  milestones,
		submissions: submissions,
		portfolios:  portfolios,
		questions:   questions,
		identity:    identity,
		notifier:    notifier,
	}
}

func makeToken(t *testing.T, actorID uuid.UUID, role models.Role) string {
	t.Helper()
	claims := actorClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router *chi.Mux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	return out
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody[map[string]any](t, recorder)
	message, _ := body["message"].(string)
	return message
}
