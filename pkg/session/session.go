package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tripspend/tripspend/pkg/gist"
)

type Page string

const (
	PageHome      Page = "home"
	PageCreate    Page = "create"
	PageDashboard Page = "dashboard"
	PageAbout     Page = "about"
)

// Pages lists the pages in menu order.
var Pages = []Page{PageHome, PageCreate, PageDashboard, PageAbout}

func ParsePage(s string) (Page, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Pages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", s)
}

func (p Page) Title() string {
	switch p {
	case PageHome:
		return "Home"
	case PageCreate:
		return "Add / Edit"
	case PageDashboard:
		return "Dashboard"
	case PageAbout:
		return "About"
	}
	return string(p)
}

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashInfo    FlashKind = "info"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once, on the next render.
type Flash struct {
	Kind    FlashKind
	Message string
}

// State is the navigation and authentication state of one browser session.
type State struct {
	mu          sync.Mutex
	id          string
	client      gist.Client
	menuOpen    bool
	currentPage Page
	flash       *Flash
	lastSeen    time.Time
}

// Snapshot is a consistent copy of a State taken for one render.
type Snapshot struct {
	Client      gist.Client
	MenuOpen    bool
	CurrentPage Page
}

func newState(id string, now time.Time) *State {
	return &State{id: id, currentPage: PageHome, lastSeen: now}
}

func (s *State) Id() string {
	return s.id
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Client: s.client, MenuOpen: s.menuOpen, CurrentPage: s.currentPage}
}

func (s *State) Client() gist.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

func (s *State) SignIn(client gist.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// SignOut drops the client and resets navigation.
func (s *State) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
	s.menuOpen = false
	s.currentPage = PageHome
}

func (s *State) ToggleMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = !s.menuOpen
}

// SelectPage switches to page and closes the menu in one update. It only applies while the
// menu is open and page differs from the current one, and reports whether anything changed.
func (s *State) SelectPage(page Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.menuOpen || page == s.currentPage {
		return false
	}
	s.currentPage = page
	s.menuOpen = false
	return true
}

func (s *State) PushFlash(kind FlashKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &Flash{Kind: kind, Message: message}
}

// PopFlash returns the pending flash and clears it.
func (s *State) PopFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	flash := s.flash
	s.flash = nil
	return flash
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
