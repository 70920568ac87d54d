package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sandeepkv93/taskdash/internal/model"
)

const (
	msgRegisterFailed = "Registration failed"
	msgLoginFailed    = "Login failed. Invalid credentials."
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mail      string `json:"mail"`
	Password  string `json:"password"`
}

type Credentials struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// Session is a successful login: the token now attached to requests and the
// profile the backend returned, when it returned one.
type Session struct {
	Token string
	User  model.User
	Raw   json.RawMessage
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) Result[json.RawMessage] {
	raw, err := c.do(ctx, http.MethodPost, pathRegister, in, nil)
	if err != nil {
		c.logger.Info("register failed", "mail", in.Mail, "err", err)
		return failResult[json.RawMessage](reason(err, msgRegisterFailed))
	}
	return okResult(raw)
}

// Login checks the credentials with the backend and, on success, derives the
// Basic token from them, persists it and attaches it to later requests.
func (c *Client) Login(ctx context.Context, in Credentials) Result[Session] {
	raw, err := c.do(ctx, http.MethodPost, pathLogin, in, nil)
	if err != nil {
		c.logger.Info("login failed", "mail", in.Mail, "err", err)
		return failResult[Session](reason(err, msgLoginFailed))
	}

	token := EncodeBasicToken(in.Mail, in.Password)
	if err := c.SetToken(ctx, token); err != nil {
		// The header is attached in memory; only persistence failed.
		c.logger.Warn("persist token", "err", err)
	}

	out := Session{Token: token, Raw: raw}
	var user model.User
	if len(raw) > 0 && json.Unmarshal(raw, &user) == nil {
		out.User = user
	}
	if out.User.Mail == "" {
		out.User.Mail = in.Mail
	}
	return okResult(out)
}
