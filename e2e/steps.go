package e2e

import (
	"github.com/cucumber/godog"

	"eventgate/e2e/steps/common"
	"eventgate/e2e/steps/events"
	"eventgate/e2e/steps/session"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background, health and generic response assertions
	common.RegisterSteps(ctx, tc)

	// Sign up, login and logout
	session.RegisterSteps(ctx, tc)

	// Event directory and membership
	events.RegisterSteps(ctx, tc)
}
