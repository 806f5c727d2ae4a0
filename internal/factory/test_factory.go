package factory

import (
	"time"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/dependencies/mocks"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/services/token"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/storage/memory"
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	tokenCfg := token.Config{
		Secret: []byte("test-signing-secret"),
	}
	app := newWithDependencies(store, mockClock, mockRandom, tokenCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
