package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

const defaultPassword = "correct-horse-battery"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	As(user, method, path string, body any) error
	GetStatus() int
	GetResponseField(field string) (any, error)
	Email(email string) string
	SetToken(user, token string)
	ForgetToken(user string)
}

// RegisterSteps registers sign up, login and logout steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &sessionSteps{tc: tc}

	ctx.Step(`^"([^"]*)" has signed up$`, steps.hasSignedUp)
	ctx.Step(`^I sign up as "([^"]*)" with password "([^"]*)"$`, steps.signUp)
	ctx.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, steps.logIn)
	ctx.Step(`^"([^"]*)" logs out$`, steps.logOut)
	ctx.Step(`^"([^"]*)" asks who they are$`, steps.whoAmI)
}

type sessionSteps struct {
	tc TestContext
}

func (s *sessionSteps) hasSignedUp(ctx context.Context, email string) error {
	if err := s.signUp(ctx, email, defaultPassword); err != nil {
		return err
	}
	if got := s.tc.GetStatus(); got != http.StatusCreated {
		return fmt.Errorf("sign up for %s returned %d", email, got)
	}
	return nil
}

func (s *sessionSteps) signUp(_ context.Context, email, password string) error {
	if err := s.tc.POST("/auth/signup", map[string]string{
		"email":    s.tc.Email(email),
		"password": password,
	}); err != nil {
		return err
	}
	return s.keepToken(email)
}

func (s *sessionSteps) logIn(_ context.Context, email, password string) error {
	if err := s.tc.POST("/auth/login", map[string]string{
		"email":    s.tc.Email(email),
		"password": password,
	}); err != nil {
		return err
	}
	return s.keepToken(email)
}

func (s *sessionSteps) logOut(_ context.Context, email string) error {
	if err := s.tc.As(email, http.MethodPost, "/auth/logout", nil); err != nil {
		return err
	}
	// The token is kept so later steps can prove it no longer works.
	return nil
}

func (s *sessionSteps) whoAmI(_ context.Context, email string) error {
	return s.tc.As(email, http.MethodGet, "/auth/me", nil)
}

func (s *sessionSteps) keepToken(user string) error {
	status := s.tc.GetStatus()
	if status != http.StatusOK && status != http.StatusCreated {
		s.tc.ForgetToken(user)
		return nil
	}
	token, err := s.tc.GetResponseField("token")
	if err != nil {
		return err
	}
	s.tc.SetToken(user, token.(string))
	return nil
}
