package client

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"logframe-studio/internal/domain"
)

// SyncStatus reports how far a mutating store call got. The store favors
// availability over strict consistency: a failed remote write keeps the
// optimistic local state rather than rolling back, on the assumption that
// a later fetch reconciles.
type SyncStatus int

const (
	// Synced means the server confirmed the write and local state holds
	// the server's canonical copy.
	Synced SyncStatus = iota
	// LocalOnly means local state was updated optimistically but the
	// remote write failed or has not run yet; nothing was rolled back.
	LocalOnly
	// Rejected means nothing changed: no session, unknown project id, or
	// invalid input.
	Rejected
)

func (s SyncStatus) String() string {
	switch s {
	case Synced:
		return "synced"
	case LocalOnly:
		return "local-only"
	default:
		return "rejected"
	}
}

// DefaultDebounceWindow matches the field editors' typical debounce.
const DefaultDebounceWindow = 800 * time.Millisecond

type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Logger      *zap.Logger
	SessionFile string // empty disables session persistence
	// DebounceWindow is the coalescing window for QueueProjectData;
	// zero means DefaultDebounceWindow.
	DebounceWindow time.Duration
}

// Store is the single source of truth, in the client process, for the
// signed-in user, their project list, the current-project pointer and the
// earned-badge set. All state is private; mutation happens only through
// its methods. The mutex plays the role the single-threaded event loop
// plays for the web client: each method's local mutation is atomic with
// respect to the others, while network round-trips happen outside the
// lock so reads keep seeing the optimistic state.
type Store struct {
	api         *API
	log         *zap.Logger
	sessionFile string
	window      time.Duration

	mu        sync.Mutex
	user      *domain.User
	token     string
	onboarded bool
	projects  []domain.Project
	current   *domain.Project
	badges    map[string]struct{}
	pending   map[string]*time.Timer
	closed    bool
}

func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	window := opts.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	s := &Store{
		api:         NewAPI(opts.BaseURL, opts.HTTPClient),
		log:         log,
		sessionFile: opts.SessionFile,
		window:      window,
		badges:      map[string]struct{}{},
		pending:     map[string]*time.Timer{},
	}
	st := loadSession(opts.SessionFile)
	if st.User != nil {
		s.user = st.User
		for _, b := range st.User.Badges {
			s.badges[b] = struct{}{}
		}
	}
	s.onboarded = st.IsOnboarded
	return s
}

// Close flushes any pending debounced writes. The store is unusable for
// queued writes afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	var ids []string
	for id, t := range s.pending {
		t.Stop()
		ids = append(ids, id)
	}
	s.pending = map[string]*time.Timer{}
	s.mu.Unlock()
	for _, id := range ids {
		s.flushData(id)
	}
}

/* ---------- session ---------- */

func (s *Store) Login(ctx context.Context, email, password string) error {
	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.adoptSession(sess)
	return nil
}

func (s *Store) Register(ctx context.Context, in Registration) error {
	sess, err := s.api.Register(ctx, in)
	if err != nil {
		return err
	}
	s.adoptSession(sess)
	return nil
}

func (s *Store) adoptSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneUser(sess.User)
	s.token = sess.Token
	s.badges = map[string]struct{}{}
	if s.user != nil {
		for _, b := range s.user.Badges {
			s.badges[b] = struct{}{}
		}
	}
	s.persistLocked()
}

// ResumeSession installs a previously issued token without a network
// round-trip. The web client keeps its token in memory only; the CLI
// stores it across invocations and resumes with it.
func (s *Store) ResumeSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Logout wipes the whole session: identity, projects, current pointer,
// onboarding flag and badge set.
func (s *Store) Logout() {
	s.mu.Lock()
	for _, t := range s.pending {
		t.Stop()
	}
	s.pending = map[string]*time.Timer{}
	s.user = nil
	s.token = ""
	s.projects = nil
	s.current = nil
	s.badges = map[string]struct{}{}
	s.onboarded = false
	s.mu.Unlock()
	clearSession(s.sessionFile)
}

/* ---------- projects ---------- */

// FetchProjects replaces the local list with the server's copy
// (last-fetch-wins, no merge with pending local edits) and retroactively
// derives badge grants from the returned progress. Failures are logged
// only; it is called opportunistically on page mount.
func (s *Store) FetchProjects(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		s.log.Debug("fetchProjects skipped: no session")
		return
	}

	ps, err := s.api.ListProjects(ctx, token)
	if err != nil {
		s.log.Error("fetchProjects failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.projects = make([]domain.Project, 0, len(ps))
	for _, p := range ps {
		s.projects = append(s.projects, cloneProject(p))
	}
	if s.current != nil {
		if i := indexOf(s.projects, s.current.ID); i >= 0 {
			cp := cloneProject(s.projects[i])
			s.current = &cp
		}
	}
	s.mu.Unlock()

	// Retroactive badge sync: repairs grants a prior session failed to
	// persist. EarnBadge is idempotent, so re-deriving is always safe.
	for _, id := range DeriveBadges(ps) {
		s.EarnBadge(ctx, id)
	}
}

// CreateProject returns nil when unauthenticated or on request failure;
// callers treat nil as "no navigation should occur". On success the
// project is appended locally and becomes current.
func (s *Store) CreateProject(ctx context.Context, name, description, templateID string) *domain.Project {
	s.mu.Lock()
	token := s.token
	org := ""
	if s.user != nil {
		org = s.user.Organization
	}
	s.mu.Unlock()
	if token == "" {
		s.log.Warn("createProject skipped: no session")
		return nil
	}

	p, err := s.api.CreateProject(ctx, token, CreateProjectInput{
		Name:         name,
		Description:  description,
		Organization: org,
		TemplateID:   templateID,
	})
	if err != nil {
		s.log.Error("createProject failed", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.projects = append(s.projects, cloneProject(*p))
	cp := cloneProject(*p)
	s.current = &cp
	first := len(s.projects) == 1
	s.mu.Unlock()

	// Local-count heuristic, not a server-confirmed fact; a racing fetch
	// makes this at worst a duplicate grant, which EarnBadge absorbs.
	if first {
		s.EarnBadge(ctx, domain.BadgeFirstProject)
	}
	out := cloneProject(*p)
	return &out
}

// UpdateProject merges fields into the project locally, then PUTs them.
// On success the server's canonical document replaces the optimistic one;
// on failure the optimistic value stays and only a log line is emitted.
func (s *Store) UpdateProject(ctx context.Context, id string, patch ProjectPatch) SyncStatus {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return Rejected
	}
	i := indexOf(s.projects, id)
	if i < 0 {
		s.mu.Unlock()
		return Rejected
	}
	applyPatch(&s.projects[i], patch)
	s.refreshCurrentLocked(id)
	token := s.token
	s.mu.Unlock()

	canon, err := s.api.UpdateProject(ctx, token, id, patch)
	if err != nil {
		s.log.Error("updateProject failed, keeping optimistic state",
			zap.String("project", id), zap.Error(err))
		return LocalOnly
	}
	s.replaceLocal(*canon)
	return Synced
}

// UpdateProjectData replaces one named slice and ships the whole data
// document; a deliberate simplicity-over-efficiency choice, the document
// is small. No-ops when the project is not in the local list.
func (s *Store) UpdateProjectData(ctx context.Context, id, slice string, value any) SyncStatus {
	s.mu.Lock()
	i := indexOf(s.projects, id)
	if i < 0 {
		s.mu.Unlock()
		return Rejected
	}
	data := s.projects[i].Data.Clone()
	s.mu.Unlock()

	if err := data.SetSlice(slice, value); err != nil {
		s.log.Error("updateProjectData rejected", zap.String("slice", slice), zap.Error(err))
		return Rejected
	}
	return s.UpdateProject(ctx, id, ProjectPatch{Data: &data})
}

// QueueProjectData applies the slice locally right away and coalesces the
// remote write: successive calls for the same project within the debounce
// window collapse into one whole-document update. Returns LocalOnly; the
// confirmation happens after the window fires.
func (s *Store) QueueProjectData(id, slice string, value any) SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.token == "" {
		return Rejected
	}
	i := indexOf(s.projects, id)
	if i < 0 {
		return Rejected
	}
	if err := s.projects[i].Data.SetSlice(slice, value); err != nil {
		s.log.Error("queueProjectData rejected", zap.String("slice", slice), zap.Error(err))
		return Rejected
	}
	s.refreshCurrentLocked(id)

	if t, ok := s.pending[id]; ok {
		t.Reset(s.window)
	} else {
		s.pending[id] = time.AfterFunc(s.window, func() {
			s.mu.Lock()
			delete(s.pending, id)
			s.mu.Unlock()
			s.flushData(id)
		})
	}
	return LocalOnly
}

func (s *Store) flushData(id string) {
	s.mu.Lock()
	token := s.token
	i := indexOf(s.projects, id)
	if token == "" || i < 0 {
		s.mu.Unlock()
		return
	}
	data := s.projects[i].Data.Clone()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	canon, err := s.api.UpdateProject(ctx, token, id, ProjectPatch{Data: &data})
	if err != nil {
		s.log.Error("debounced data write failed, keeping optimistic state",
			zap.String("project", id), zap.Error(err))
		return
	}
	s.replaceLocal(*canon)
}

// UpdateProgress marks a wizard step complete. Idempotent for the step
// set; currentStep only ever advances through this path, clamped to the
// last step. Badge grants follow the persistence attempt regardless of
// its outcome, the retroactive sync squares things up later.
func (s *Store) UpdateProgress(ctx context.Context, id string, step int) SyncStatus {
	if step < 1 || step > domain.TotalSteps {
		s.log.Warn("updateProgress rejected: step out of range", zap.Int("step", step))
		return Rejected
	}
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return Rejected
	}
	i := indexOf(s.projects, id)
	if i < 0 {
		s.mu.Unlock()
		return Rejected
	}
	p := &s.projects[i]
	if !p.CompletedSteps.Contains(step) {
		p.CompletedSteps = append(p.CompletedSteps, step)
	}
	p.CompletedSteps = domain.NormalizeSteps(p.CompletedSteps)
	p.Progress = domain.ProgressFor(p.CompletedSteps)
	if next := step + 1; next > p.CurrentStep {
		p.CurrentStep = next
	}
	if p.CurrentStep > domain.TotalSteps {
		p.CurrentStep = domain.TotalSteps
	}
	done := len(p.CompletedSteps) == domain.TotalSteps
	if done {
		p.Status = domain.StatusCompleted
	} else {
		p.Status = domain.StatusInProgress
	}
	status := p.Status
	cur := p.CurrentStep
	steps := append([]int{}, p.CompletedSteps...)
	patch := ProjectPatch{
		Status:         &status,
		CurrentStep:    &cur,
		CompletedSteps: &steps,
	}
	s.refreshCurrentLocked(id)
	token := s.token
	s.mu.Unlock()

	st := Synced
	canon, err := s.api.UpdateProject(ctx, token, id, patch)
	if err != nil {
		s.log.Error("updateProgress failed, keeping optimistic state",
			zap.String("project", id), zap.Error(err))
		st = LocalOnly
	} else {
		s.replaceLocal(*canon)
	}

	s.EarnBadge(ctx, domain.StepBadge(step))
	if done {
		s.EarnBadge(ctx, domain.BadgeProgramDesigner)
	}
	return st
}

// DeleteProject removes locally regardless of the remote outcome; a
// failed remote delete is logged only (accepted soft-delete risk).
func (s *Store) DeleteProject(ctx context.Context, id string) SyncStatus {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return Rejected
	}
	i := indexOf(s.projects, id)
	if i < 0 {
		s.mu.Unlock()
		return Rejected
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	if t, ok := s.pending[id]; ok {
		t.Stop()
		delete(s.pending, id)
	}
	token := s.token
	s.mu.Unlock()

	if err := s.api.DeleteProject(ctx, token, id); err != nil {
		s.log.Error("deleteProject remote failed", zap.String("project", id), zap.Error(err))
		return LocalOnly
	}
	return Synced
}

// SetCurrentProject is a pure local pointer assignment; nil clears it.
func (s *Store) SetCurrentProject(p *domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.current = nil
		return
	}
	cp := cloneProject(*p)
	s.current = &cp
}

/* ---------- badges ---------- */

// EarnBadge is idempotent and monotonic: already-present grants return
// Synced without a network call, and a failed remote persist never
// un-shows a badge in this session.
func (s *Store) EarnBadge(ctx context.Context, badgeID string) SyncStatus {
	if badgeID == "" {
		return Rejected
	}
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return Rejected
	}
	if _, ok := s.badges[badgeID]; ok {
		s.mu.Unlock()
		return Synced
	}
	s.badges[badgeID] = struct{}{}
	if s.user != nil && !s.user.HasBadge(badgeID) {
		s.user.Badges = append(s.user.Badges, badgeID)
	}
	s.persistLocked()
	token := s.token
	s.mu.Unlock()

	if _, err := s.api.EarnBadge(ctx, token, badgeID); err != nil {
		s.log.Warn("badge persist failed, keeping local grant",
			zap.String("badge", badgeID), zap.Error(err))
		return LocalOnly
	}
	return Synced
}

/* ---------- read access ---------- */

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

func (s *Store) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, cloneProject(p))
	}
	return out
}

func (s *Store) Project(id string) *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.projects, id); i >= 0 {
		cp := cloneProject(s.projects[i])
		return &cp
	}
	return nil
}

func (s *Store) CurrentProject() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := cloneProject(*s.current)
	return &cp
}

func (s *Store) Badges() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.badges))
	for b := range s.badges {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

func (s *Store) HasBadge(badgeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.badges[badgeID]
	return ok
}

func (s *Store) IsOnboarded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboarded
}

func (s *Store) SetOnboarded(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboarded = v
	s.persistLocked()
}

/* ---------- internals ---------- */

func (s *Store) persistLocked() {
	if err := saveSession(s.sessionFile, sessionState{User: s.user, IsOnboarded: s.onboarded}); err != nil {
		s.log.Warn("session persist failed", zap.Error(err))
	}
}

// replaceLocal swaps in the server's canonical copy of a project.
func (s *Store) replaceLocal(canon domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.projects, canon.ID); i >= 0 {
		s.projects[i] = cloneProject(canon)
	}
	s.refreshCurrentLocked(canon.ID)
}

func (s *Store) refreshCurrentLocked(id string) {
	if s.current == nil || s.current.ID != id {
		return
	}
	if i := indexOf(s.projects, id); i >= 0 {
		cp := cloneProject(s.projects[i])
		s.current = &cp
	}
}

func indexOf(ps []domain.Project, id string) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(p *domain.Project, patch ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Organization != nil {
		p.Organization = *patch.Organization
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.CurrentStep != nil {
		p.CurrentStep = *patch.CurrentStep
	}
	if patch.CompletedSteps != nil {
		p.CompletedSteps = domain.NormalizeSteps(*patch.CompletedSteps)
		p.Progress = domain.ProgressFor(p.CompletedSteps)
	}
	if patch.Data != nil {
		p.Data = patch.Data.Clone()
	}
}

func cloneProject(p domain.Project) domain.Project {
	p.Data = p.Data.Clone()
	p.CompletedSteps = append(domain.IntList{}, p.CompletedSteps...)
	p.Badges = append(domain.StringList{}, p.Badges...)
	return p
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Badges = append(domain.StringList{}, u.Badges...)
	return &cp
}
