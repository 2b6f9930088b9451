package gist

import (
	"context"
	"sync"

	"github.com/tripspend/tripspend/pkg/expense"
)

type ClientStub struct {
	*expense.StoreStub
	login string
}

func NewClientStub(login string, records ...expense.Record) *ClientStub {
	return &ClientStub{StoreStub: expense.NewStoreStub(records...), login: login}
}

func (c *ClientStub) Login() string {
	return c.login
}

// AuthenticatorStub accepts the tokens registered with SetClient.
type AuthenticatorStub struct {
	mu      sync.RWMutex
	clients map[string]Client
	calls   int
}

func NewAuthenticatorStub() *AuthenticatorStub {
	return &AuthenticatorStub{clients: make(map[string]Client)}
}

func (a *AuthenticatorStub) Authenticate(ctx context.Context, token string) (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	if token == "" {
		return nil, &AuthError{Reason: "the GitHub token was not provided"}
	}
	client, ok := a.clients[token]
	if !ok {
		return nil, &AuthError{StatusCode: 401, Reason: "the provided token is invalid or has expired"}
	}
	return client, nil
}

func (a *AuthenticatorStub) SetClient(token string, client Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[token] = client
}

func (a *AuthenticatorStub) Calls() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.calls
}
