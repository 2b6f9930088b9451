package test_utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/tripspend/tripspend/internal/config"
)

const (
	TestToken  = "ghp_valid_test_token"
	TestLogin  = "traveller"
	TestGistId = "0123456789abcdef"
	TestFile   = "dados_viagem.json"
)

// FakeGitHub is an in-process stand-in for the parts of the GitHub REST API used by the gist client.
type FakeGitHub struct {
	Server *httptest.Server

	mu          sync.Mutex
	files       map[string]string
	truncated   map[string]bool
	userStatus  int
	gistStatus  int
	patchStatus int
	requests    []*http.Request
	patches     int
}

func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()

	f := &FakeGitHub{
		files:     map[string]string{TestFile: "[]"},
		truncated: map[string]bool{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/user", f.handleUser).Methods(http.MethodGet)
	r.HandleFunc("/gists/{id}", f.handleGetGist).Methods(http.MethodGet)
	r.HandleFunc("/gists/{id}", f.handlePatchGist).Methods(http.MethodPatch)
	r.HandleFunc("/raw/{file}", f.handleRaw).Methods(http.MethodGet)
	r.Use(f.recordRequests)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns a gist configuration pointing at the fake server.
func (f *FakeGitHub) Config() config.Gist {
	return config.Gist{
		Id:       TestGistId,
		Filename: TestFile,
		ApiUrl:   f.Server.URL,
		Timeout:  5 * time.Second,
	}
}

func (f *FakeGitHub) SetFile(name, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = content
}

func (f *FakeGitHub) RemoveFile(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
}

func (f *FakeGitHub) SetTruncated(name string, truncated bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncated[name] = truncated
}

func (f *FakeGitHub) File(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[name]
}

// SetUserStatus forces the status returned by GET /user, 0 restores normal behaviour.
func (f *FakeGitHub) SetUserStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userStatus = status
}

func (f *FakeGitHub) SetGistStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gistStatus = status
}

func (f *FakeGitHub) SetPatchStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patchStatus = status
}

func (f *FakeGitHub) Patches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patches
}

// Requests returns the requests received so far, in order.
func (f *FakeGitHub) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request{}, f.requests...)
}

func (f *FakeGitHub) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+TestToken
}

func (f *FakeGitHub) handleUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status := f.userStatus
	f.mu.Unlock()

	if status != 0 {
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"login": TestLogin, "id": 1})
}

func (f *FakeGitHub) handleGetGist(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	if mux.Vars(r)["id"] != TestGistId {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gistStatus != 0 {
		writeJSON(w, f.gistStatus, map[string]string{"message": http.StatusText(f.gistStatus)})
		return
	}
	files := make(map[string]any, len(f.files))
	for name, content := range f.files {
		file := map[string]any{
			"filename":  name,
			"content":   content,
			"truncated": f.truncated[name],
			"raw_url":   f.Server.URL + "/raw/" + name,
		}
		if f.truncated[name] {
			file["content"] = content[:len(content)/2]
		}
		files[name] = file
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": TestGistId, "files": files})
}

func (f *FakeGitHub) handlePatchGist(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	if mux.Vars(r)["id"] != TestGistId {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	var patch struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches++
	if f.patchStatus != 0 {
		writeJSON(w, f.patchStatus, map[string]string{"message": http.StatusText(f.patchStatus)})
		return
	}
	for name, file := range patch.Files {
		f.files[name] = file.Content
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": TestGistId})
}

func (f *FakeGitHub) handleRaw(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	content, ok := f.files[mux.Vars(r)["file"]]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
