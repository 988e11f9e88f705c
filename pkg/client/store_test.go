package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logframe-studio/internal/core/auth"
	"logframe-studio/internal/domain"
	"logframe-studio/internal/service"
	"logframe-studio/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

// backend runs the real engine over in-memory repositories and counts
// requests per "METHOD path" so tests can assert on network traffic.
type backend struct {
	srv *httptest.Server

	mu     sync.Mutex
	counts map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	eng := router.NewAPIEngine(router.Deps{
		Log:      zap.NewNop(),
		JWTer:    jwter,
		Users:    service.NewUserService(newMemUserRepo(), jwter),
		Projects: service.NewProjectService(newMemProjectRepo(), nil, 0, zap.NewNop()),
	})

	b := &backend{counts: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.counts[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		eng.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[method+" "+path]
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newTestStore(t *testing.T, b *backend, opts Options) *Store {
	t.Helper()
	opts.BaseURL = b.srv.URL
	opts.Logger = zap.NewNop()
	s := New(opts)
	t.Cleanup(s.Close)
	return s
}

func register(t *testing.T, s *Store, email string) {
	t.Helper()
	err := s.Register(context.Background(), Registration{
		Name:         "Asha",
		Email:        email,
		Password:     "secret123",
		Organization: "Pratham",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestRegisterAndSessionFile(t *testing.T) {
	b := newBackend(t)
	file := filepath.Join(t.TempDir(), "session.json")
	s := newTestStore(t, b, Options{SessionFile: file})

	if s.IsAuthenticated() {
		t.Fatal("authenticated before register")
	}
	register(t, s, "asha@example.org")

	if !s.IsAuthenticated() {
		t.Fatal("no session after register")
	}
	u := s.User()
	if u == nil || u.Email != "asha@example.org" || u.Organization != "Pratham" {
		t.Fatalf("user = %+v", u)
	}
	s.SetOnboarded(true)

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("session file: %v", err)
	}
	if !strings.Contains(string(raw), "asha@example.org") {
		t.Error("session file missing user")
	}

	// A fresh store on the same file restores the user and onboarding
	// flag, but never the token.
	s2 := newTestStore(t, b, Options{SessionFile: file})
	if s2.User() == nil || s2.User().Email != "asha@example.org" {
		t.Error("restored store lost the user")
	}
	if !s2.IsOnboarded() {
		t.Error("restored store lost onboarding flag")
	}
	if s2.IsAuthenticated() {
		t.Error("token must not survive a restart")
	}
}

func TestCreateProjectFirstBadge(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})

	// Unauthenticated create is a no-op.
	if p := s.CreateProject(context.Background(), "N", "d", ""); p != nil {
		t.Fatal("create without session must return nil")
	}

	register(t, s, "asha@example.org")
	p := s.CreateProject(context.Background(), "Literacy Pilot", "Foundational literacy", "")
	if p == nil {
		t.Fatal("create returned nil")
	}
	if p.Status != domain.StatusDraft || p.CurrentStep != 1 || p.Progress != 0 {
		t.Errorf("defaults: %+v", p)
	}
	if cur := s.CurrentProject(); cur == nil || cur.ID != p.ID {
		t.Error("created project did not become current")
	}
	if len(s.Projects()) != 1 {
		t.Errorf("local list = %d projects", len(s.Projects()))
	}
	if !s.HasBadge(domain.BadgeFirstProject) {
		t.Error("first-project badge not granted")
	}
}

func TestUpdateProgressLifecycle(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	p := s.CreateProject(ctx, "Literacy Pilot", "d", "")

	if st := s.UpdateProgress(ctx, p.ID, 0); st != Rejected {
		t.Errorf("step 0: %v", st)
	}
	if st := s.UpdateProgress(ctx, p.ID, 8); st != Rejected {
		t.Errorf("step 8: %v", st)
	}
	if st := s.UpdateProgress(ctx, "nope", 1); st != Rejected {
		t.Errorf("unknown project: %v", st)
	}

	if st := s.UpdateProgress(ctx, p.ID, 1); st != Synced {
		t.Fatalf("step 1: %v", st)
	}
	got := s.Project(p.ID)
	if got.Progress != 14 || got.CurrentStep != 2 || got.Status != domain.StatusInProgress {
		t.Errorf("after step 1: progress=%d cur=%d status=%q", got.Progress, got.CurrentStep, got.Status)
	}
	if !s.HasBadge(domain.BadgeProblemAnalyst) {
		t.Error("step badge not granted")
	}

	// Completing the same step again changes nothing.
	if st := s.UpdateProgress(ctx, p.ID, 1); st != Synced {
		t.Fatalf("repeat step 1: %v", st)
	}
	again := s.Project(p.ID)
	if again.Progress != 14 || again.CurrentStep != 2 || len(again.CompletedSteps) != 1 {
		t.Errorf("repeat changed state: %+v", again)
	}

	for step := 2; step <= domain.TotalSteps; step++ {
		if st := s.UpdateProgress(ctx, p.ID, step); st != Synced {
			t.Fatalf("step %d: %v", step, st)
		}
	}
	done := s.Project(p.ID)
	if done.Progress != 100 || done.Status != domain.StatusCompleted || done.CurrentStep != domain.TotalSteps {
		t.Errorf("completed: progress=%d status=%q cur=%d", done.Progress, done.Status, done.CurrentStep)
	}
	if !s.HasBadge(domain.BadgeProgramDesigner) {
		t.Error("program-designer badge not granted")
	}
}

func TestFetchProjectsDerivesBadges(t *testing.T) {
	b := newBackend(t)
	ctx := context.Background()

	first := newTestStore(t, b, Options{})
	register(t, first, "asha@example.org")
	p := first.CreateProject(ctx, "Literacy Pilot", "d", "")
	first.UpdateProgress(ctx, p.ID, 1)
	first.UpdateProgress(ctx, p.ID, 2)

	// A second session for the same account starts empty and fills in on
	// fetch, re-deriving the badge grants from the returned progress.
	second := newTestStore(t, b, Options{})
	if err := second.Login(ctx, "asha@example.org", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	second.FetchProjects(ctx)

	if len(second.Projects()) != 1 {
		t.Fatalf("fetched %d projects", len(second.Projects()))
	}
	for _, want := range []string{
		domain.BadgeProblemAnalyst,
		domain.BadgeStakeholderMapper,
		domain.BadgeFirstProject,
	} {
		if !second.HasBadge(want) {
			t.Errorf("missing badge %s", want)
		}
	}
}

func TestUpdateProjectDataSliceIsolation(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	p := s.CreateProject(ctx, "Literacy Pilot", "d", "")

	st := s.UpdateProjectData(ctx, p.ID, domain.SliceProblemDefinition, domain.ProblemDefinition{
		MainProblem: "Low reading proficiency",
		Location:    domain.Location{State: "Bihar"},
	})
	if st != Synced {
		t.Fatalf("problemDefinition: %v", st)
	}
	st = s.UpdateProjectData(ctx, p.ID, domain.SliceStakeholders, []domain.Stakeholder{
		{ID: "s1", Name: "Block Education Officer"},
	})
	if st != Synced {
		t.Fatalf("stakeholders: %v", st)
	}

	got := s.Project(p.ID)
	if got.Data.ProblemDefinition == nil || got.Data.ProblemDefinition.MainProblem != "Low reading proficiency" {
		t.Error("earlier slice was clobbered by the later write")
	}
	if len(got.Data.Stakeholders) != 1 {
		t.Errorf("stakeholders = %+v", got.Data.Stakeholders)
	}

	if st := s.UpdateProjectData(ctx, p.ID, "notASlice", 1); st != Rejected {
		t.Errorf("unknown slice: %v", st)
	}
	if st := s.UpdateProjectData(ctx, "nope", domain.SliceStakeholders, nil); st != Rejected {
		t.Errorf("unknown project: %v", st)
	}
}

func TestQueueProjectDataCoalesces(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{DebounceWindow: 30 * time.Millisecond})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	p := s.CreateProject(ctx, "Literacy Pilot", "d", "")
	path := "/api/projects/" + p.ID

	for i := 1; i <= 3; i++ {
		st := s.QueueProjectData(p.ID, domain.SliceStakeholders, make([]domain.Stakeholder, i))
		if st != LocalOnly {
			t.Fatalf("queue %d: %v", i, st)
		}
	}
	// The local document reflects the last write immediately.
	if got := s.Project(p.ID); len(got.Data.Stakeholders) != 3 {
		t.Fatalf("local stakeholders = %d", len(got.Data.Stakeholders))
	}

	if !waitFor(t, 2*time.Second, func() bool { return b.count(http.MethodPut, path) == 1 }) {
		t.Fatalf("debounced flush did not happen, PUTs = %d", b.count(http.MethodPut, path))
	}
	time.Sleep(100 * time.Millisecond)
	if n := b.count(http.MethodPut, path); n != 1 {
		t.Errorf("coalescing sent %d PUTs, want 1", n)
	}

	canon, err := s.api.ListProjects(ctx, s.Token())
	if err != nil {
		t.Fatal(err)
	}
	if len(canon) != 1 || len(canon[0].Data.Stakeholders) != 3 {
		t.Errorf("server copy missed the coalesced write: %+v", canon)
	}
}

func TestOptimisticRetentionOnOutage(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	p := s.CreateProject(ctx, "Literacy Pilot", "d", "")

	b.srv.Close()

	name := "Renamed Offline"
	if st := s.UpdateProject(ctx, p.ID, ProjectPatch{Name: &name}); st != LocalOnly {
		t.Fatalf("update during outage: %v", st)
	}
	if got := s.Project(p.ID); got.Name != "Renamed Offline" {
		t.Error("optimistic rename was rolled back")
	}

	if st := s.UpdateProgress(ctx, p.ID, 1); st != LocalOnly {
		t.Fatalf("progress during outage: %v", st)
	}
	got := s.Project(p.ID)
	if got.Progress != 14 || got.CurrentStep != 2 {
		t.Errorf("optimistic progress lost: %+v", got)
	}
	// Badge grants still show this session even though persistence failed.
	if !s.HasBadge(domain.BadgeProblemAnalyst) {
		t.Error("local badge grant lost during outage")
	}

	if st := s.DeleteProject(ctx, p.ID); st != LocalOnly {
		t.Fatalf("delete during outage: %v", st)
	}
	if len(s.Projects()) != 0 {
		t.Error("local delete did not happen")
	}
}

func TestEarnBadgeIdempotent(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	ctx := context.Background()

	if st := s.EarnBadge(ctx, "problem-analyst"); st != Rejected {
		t.Errorf("unauthenticated grant: %v", st)
	}
	register(t, s, "asha@example.org")

	if st := s.EarnBadge(ctx, "problem-analyst"); st != Synced {
		t.Fatalf("first grant: %v", st)
	}
	before := b.count(http.MethodPut, "/api/auth/badges")
	if st := s.EarnBadge(ctx, "problem-analyst"); st != Synced {
		t.Fatalf("second grant: %v", st)
	}
	if after := b.count(http.MethodPut, "/api/auth/badges"); after != before {
		t.Errorf("duplicate grant hit the network: %d -> %d", before, after)
	}
	if got := s.Badges(); len(got) != 1 || got[0] != "problem-analyst" {
		t.Errorf("badges = %v", got)
	}
	if st := s.EarnBadge(ctx, ""); st != Rejected {
		t.Errorf("empty badge id: %v", st)
	}
}

func TestDeleteProject(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	p := s.CreateProject(ctx, "Literacy Pilot", "d", "")

	if st := s.DeleteProject(ctx, p.ID); st != Synced {
		t.Fatalf("delete: %v", st)
	}
	if len(s.Projects()) != 0 || s.CurrentProject() != nil {
		t.Error("delete left local state behind")
	}
	if st := s.DeleteProject(ctx, p.ID); st != Rejected {
		t.Errorf("second delete: %v", st)
	}

	canon, err := s.api.ListProjects(ctx, s.Token())
	if err != nil {
		t.Fatal(err)
	}
	if len(canon) != 0 {
		t.Errorf("server still has %d projects", len(canon))
	}
}

func TestLogoutWipesEverything(t *testing.T) {
	b := newBackend(t)
	file := filepath.Join(t.TempDir(), "session.json")
	s := newTestStore(t, b, Options{SessionFile: file})
	register(t, s, "asha@example.org")
	ctx := context.Background()
	s.CreateProject(ctx, "Literacy Pilot", "d", "")
	s.SetOnboarded(true)

	s.Logout()

	if s.IsAuthenticated() || s.User() != nil || s.IsOnboarded() {
		t.Error("session state survived logout")
	}
	if len(s.Projects()) != 0 || s.CurrentProject() != nil || len(s.Badges()) != 0 {
		t.Error("project/badge state survived logout")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("session file survived logout")
	}
}

func TestResumeSession(t *testing.T) {
	b := newBackend(t)
	s := newTestStore(t, b, Options{})
	register(t, s, "asha@example.org")
	token := s.Token()
	p := s.CreateProject(context.Background(), "Literacy Pilot", "d", "")

	resumed := newTestStore(t, b, Options{})
	resumed.ResumeSession(token)
	if !resumed.IsAuthenticated() {
		t.Fatal("resume did not install the token")
	}
	resumed.FetchProjects(context.Background())
	if got := resumed.Project(p.ID); got == nil {
		t.Error("resumed session cannot see the account's projects")
	}
}
