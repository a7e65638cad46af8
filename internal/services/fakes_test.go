package services

import (
	"context"
	"sync"
	"time"

	"github.com/Harshad932/Infinova-sub000/internal/apperr"
	"github.com/Harshad932/Infinova-sub000/internal/models"
	"github.com/Harshad932/Infinova-sub000/internal/scoring"
)

// memStore is an in-memory stand-in for the GORM repositories. It
// implements every store interface with the same contracts: lookups
// return (nil, nil) when absent, session creation enforces the
// one-per-(test, participant) rule, response upserts are keyed by
// (session, question).
type memStore struct {
	mu sync.Mutex

	tests         map[uint]*models.Test
	categories    map[uint]*models.Category
	subcategories map[uint]*models.Subcategory
	questions     map[uint]*models.Question
	participants  map[uint]*models.Participant
	registrations []*models.Registration
	passcodes     []*models.Passcode
	sessions      map[uint]*models.Session
	responses     []*models.Response

	nextID uint

	// sessionCreateHook runs at the top of session Create, letting a
	// test inject a competing writer between the existence check and
	// the insert.
	sessionCreateHook func()
}

func newMemStore() *memStore {
	return &memStore{
		tests:         make(map[uint]*models.Test),
		categories:    make(map[uint]*models.Category),
		subcategories: make(map[uint]*models.Subcategory),
		questions:     make(map[uint]*models.Question),
		participants:  make(map[uint]*models.Participant),
		sessions:      make(map[uint]*models.Session),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

// --- seeding helpers ---

func (m *memStore) addTest(status models.TestStatus, timePerQuestion int, joinCode *string) *models.Test {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &models.Test{
		ID:               m.id(),
		Title:            "Seeded Test",
		TimePerQuestion:  timePerQuestion,
		Status:           status,
		JoinCode:         joinCode,
		RegistrationOpen: true,
	}
	m.tests[t.ID] = t
	return t
}

// addQuestions appends questions under a single fresh category and
// subcategory, continuing the test's dense order.
func (m *memStore) addQuestions(testID uint, catName, subName string, texts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat := &models.Category{ID: m.id(), TestID: testID, Name: catName}
	m.categories[cat.ID] = cat
	sub := &models.Subcategory{ID: m.id(), TestID: testID, CategoryID: cat.ID, Name: subName}
	m.subcategories[sub.ID] = sub

	order := 0
	for _, q := range m.questions {
		if q.TestID == testID && q.QuestionOrder > order {
			order = q.QuestionOrder
		}
	}
	for i, text := range texts {
		q := &models.Question{
			ID:               m.id(),
			TestID:           testID,
			CategoryID:       cat.ID,
			SubcategoryID:    sub.ID,
			Text:             text,
			QuestionOrder:    order + i + 1,
			SubcategoryOrder: i + 1,
		}
		m.questions[q.ID] = q
	}
	m.tests[testID].TotalQuestions = order + len(texts)
}

func (m *memStore) addParticipant(name, email, phone string) *models.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Participant{ID: m.id(), Name: name, Email: email, Phone: phone}
	m.participants[p.ID] = p
	return p
}

func (m *memStore) addRegistration(testID, participantID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, &models.Registration{
		ID:            m.id(),
		TestID:        testID,
		ParticipantID: participantID,
		Status:        models.RegistrationRegistered,
	})
}

func (m *memStore) addPasscode(pc models.Passcode) *models.Passcode {
	m.mu.Lock()
	defer m.mu.Unlock()
	pc.ID = m.id()
	cp := pc
	m.passcodes = append(m.passcodes, &cp)
	return &cp
}

func (m *memStore) addSession(testID, participantID uint, status models.SessionStatus, total int) *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Session{
		ID:                   m.id(),
		Token:                "seeded-token",
		TestID:               testID,
		ParticipantID:        participantID,
		Status:               status,
		CurrentQuestionOrder: 1,
		TotalQuestions:       total,
		StartedAt:            time.Now(),
		LastSeenAt:           time.Now(),
	}
	m.sessions[s.ID] = s
	return s
}

func (m *memStore) questionByOrder(testID uint, order int) *models.Question {
	for _, q := range m.questions {
		if q.TestID == testID && q.QuestionOrder == order {
			return q
		}
	}
	return nil
}

// --- TestStore ---

func (m *memStore) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GetTestByCode(ctx context.Context, code string) (*models.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tests {
		if t.JoinCode != nil && *t.JoinCode == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateTestStatus(ctx context.Context, id uint, status models.TestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[id].Status = status
	return nil
}

func (m *memStore) SetStatusAndJoinCode(ctx context.Context, id uint, status models.TestStatus, code *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[id].Status = status
	m.tests[id].JoinCode = code
	return nil
}

func (m *memStore) SetJoinCode(ctx context.Context, id uint, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[id].JoinCode = &code
	return nil
}

func (m *memStore) CountQuestions(ctx context.Context, testID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, q := range m.questions {
		if q.TestID == testID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (m *memStore) GetQuestionContext(ctx context.Context, testID uint, order int) (*models.QuestionContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.questionByOrder(testID, order)
	if q == nil {
		return nil, nil
	}
	qc := &models.QuestionContext{
		QuestionID:       q.ID,
		Text:             q.Text,
		QuestionOrder:    q.QuestionOrder,
		SubcategoryOrder: q.SubcategoryOrder,
		CategoryName:     "Unknown category",
		SubcategoryName:  "Unknown subcategory",
	}
	if cat, ok := m.categories[q.CategoryID]; ok {
		qc.CategoryName = cat.Name
	}
	if sub, ok := m.subcategories[q.SubcategoryID]; ok {
		qc.SubcategoryName = sub.Name
	}
	return qc, nil
}

func (m *memStore) CreateTestGraph(ctx context.Context, def *models.TestDefinition) (*models.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	test := &models.Test{
		ID:               m.id(),
		Title:            def.Title,
		Description:      def.Description,
		TimePerQuestion:  def.TimePerQuestion,
		Status:           models.TestDraft,
		RegistrationOpen: def.RegistrationOpen == nil || *def.RegistrationOpen,
	}
	order := 0
	for ci, catDef := range def.Categories {
		cat := &models.Category{ID: m.id(), TestID: test.ID, Name: catDef.Name, DisplayOrder: ci + 1}
		m.categories[cat.ID] = cat
		for si, subDef := range catDef.Subcategories {
			sub := &models.Subcategory{ID: m.id(), TestID: test.ID, CategoryID: cat.ID, Name: subDef.Name, DisplayOrder: si + 1}
			m.subcategories[sub.ID] = sub
			for qi, text := range subDef.Questions {
				order++
				q := &models.Question{
					ID:               m.id(),
					TestID:           test.ID,
					CategoryID:       cat.ID,
					SubcategoryID:    sub.ID,
					Text:             text,
					QuestionOrder:    order,
					SubcategoryOrder: qi + 1,
				}
				m.questions[q.ID] = q
			}
		}
	}
	test.TotalQuestions = order
	m.tests[test.ID] = test
	cp := *test
	return &cp, nil
}

func (m *memStore) EndTestAndTerminateSessions(ctx context.Context, testID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[testID].Status = models.TestCompleted
	for _, s := range m.sessions {
		if s.TestID == testID && s.Status == models.SessionInProgress {
			s.Status = models.SessionTerminated
		}
	}
	return nil
}

// --- ParticipantStore ---

func (m *memStore) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByID(ctx context.Context, id uint) (*models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Save(ctx context.Context, p *models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.id()
	}
	cp := *p
	m.participants[p.ID] = &cp
	return nil
}

func (m *memStore) EnsureRegistration(ctx context.Context, testID, participantID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.registrations {
		if r.TestID == testID && r.ParticipantID == participantID {
			return nil
		}
	}
	m.registrations = append(m.registrations, &models.Registration{
		ID:            m.id(),
		TestID:        testID,
		ParticipantID: participantID,
		Status:        models.RegistrationRegistered,
	})
	return nil
}

func (m *memStore) GetRegistration(ctx context.Context, testID, participantID uint) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.registrations {
		if r.TestID == testID && r.ParticipantID == participantID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

// --- PasscodeStore ---

func (m *memStore) Create(ctx context.Context, pc *models.Passcode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pc.ID = m.id()
	if pc.CreatedAt.IsZero() {
		pc.CreatedAt = time.Now()
	}
	cp := *pc
	m.passcodes = append(m.passcodes, &cp)
	return nil
}

func (m *memStore) latestPasscode(participantID uint, email string, consumed bool) *models.Passcode {
	var best *models.Passcode
	for _, pc := range m.passcodes {
		if pc.ParticipantID != participantID || pc.Email != email {
			continue
		}
		if consumed != (pc.ConsumedAt != nil) {
			continue
		}
		if best == nil || pc.CreatedAt.After(best.CreatedAt) {
			best = pc
		}
	}
	return best
}

func (m *memStore) Latest(ctx context.Context, participantID uint, email string) (*models.Passcode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Passcode
	for _, pc := range m.passcodes {
		if pc.ParticipantID != participantID || pc.Email != email {
			continue
		}
		if best == nil || pc.CreatedAt.After(best.CreatedAt) {
			best = pc
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) LatestConsumed(ctx context.Context, participantID uint, email string) (*models.Passcode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	best := m.latestPasscode(participantID, email, true)
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memStore) MarkConsumed(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pc := range m.passcodes {
		if pc.ID == id && pc.ConsumedAt == nil {
			t := at
			pc.ConsumedAt = &t
		}
	}
	return nil
}

func (m *memStore) IncrementFailed(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pc := range m.passcodes {
		if pc.ID == id {
			pc.FailedAttempts++
		}
	}
	return nil
}

func (m *memStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*models.Passcode
	var removed int64
	for _, pc := range m.passcodes {
		if pc.ConsumedAt == nil && cutoff.After(pc.ExpiresAt) {
			removed++
			continue
		}
		kept = append(kept, pc)
	}
	m.passcodes = kept
	return removed, nil
}

// --- SessionStore ---

// CreateSession is wired through sessionStore below so memStore can
// also satisfy PasscodeStore, whose Create has a different signature.

type sessionStore struct {
	*memStore
}

func (m sessionStore) Create(ctx context.Context, s *models.Session) error {
	if m.sessionCreateHook != nil {
		hook := m.sessionCreateHook
		m.sessionCreateHook = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.TestID == s.TestID && existing.ParticipantID == s.ParticipantID {
			return apperr.New(apperr.KindConflict, "session already exists for this test and participant")
		}
	}
	s.ID = m.id()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) GetByTestAndParticipant(ctx context.Context, testID, participantID uint) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.TestID == testID && s.ParticipantID == participantID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdatePosition(ctx context.Context, sessionID uint, order int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if ok && s.CurrentQuestionOrder < order {
		s.CurrentQuestionOrder = order
	}
	return nil
}

func (m *memStore) UpdateProgress(ctx context.Context, sessionID uint, order, answered int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		if s.CurrentQuestionOrder < order {
			s.CurrentQuestionOrder = order
		}
		s.QuestionsAnswered = answered
	}
	return nil
}

func (m *memStore) SetStatus(ctx context.Context, sessionID uint, status models.SessionStatus, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.Status = status
		s.CompletedAt = completedAt
	}
	return nil
}

func (m *memStore) Heartbeat(ctx context.Context, sessionID uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.LastSeenAt = at
	}
	return nil
}

func (m *memStore) ListCompletedByTest(ctx context.Context, testID uint) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.sessions {
		if s.TestID == testID && s.Status == models.SessionCompleted {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- ResponseStore ---

type responseStore struct {
	*memStore
}

func (m responseStore) Upsert(ctx context.Context, resp *models.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.responses {
		if r.SessionID == resp.SessionID && r.QuestionID == resp.QuestionID {
			r.SelectedOption = resp.SelectedOption
			r.MarksObtained = resp.MarksObtained
			r.TimeTaken = resp.TimeTaken
			r.IsAutomatic = resp.IsAutomatic
			r.AnsweredAt = resp.AnsweredAt
			return nil
		}
	}
	resp.ID = m.id()
	cp := *resp
	m.responses = append(m.responses, &cp)
	return nil
}

func (m *memStore) CountForSession(ctx context.Context, sessionID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.responses {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarksByQuestion(ctx context.Context, sessionID uint) (map[uint]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]int)
	for _, r := range m.responses {
		if r.SessionID == sessionID {
			out[r.QuestionID] = r.MarksObtained
		}
	}
	return out, nil
}

// --- ResultsStore ---

func (m *memStore) ListQuestionInfo(ctx context.Context, testID uint) ([]scoring.QuestionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []scoring.QuestionInfo
	maxOrder := 0
	for _, q := range m.questions {
		if q.TestID == testID && q.QuestionOrder > maxOrder {
			maxOrder = q.QuestionOrder
		}
	}
	for order := 1; order <= maxOrder; order++ {
		q := m.questionByOrder(testID, order)
		if q == nil {
			continue
		}
		info := scoring.QuestionInfo{
			ID:              q.ID,
			CategoryID:      q.CategoryID,
			CategoryName:    "Unknown category",
			SubcategoryID:   q.SubcategoryID,
			SubcategoryName: "Unknown subcategory",
		}
		if cat, ok := m.categories[q.CategoryID]; ok {
			info.CategoryName = cat.Name
		}
		if sub, ok := m.subcategories[q.SubcategoryID]; ok {
			info.SubcategoryName = sub.Name
		}
		out = append(out, info)
	}
	return out, nil
}

// --- PasscodeSender ---

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendPasscode(participant models.Participant, code string, validFor time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, code)
}
