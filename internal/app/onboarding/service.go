package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"klondike/internal/ports"
)

// Result describes what onboarding did for a new account.
type Result struct {
	DisplayName string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service. accounts must be non-nil; rng may be nil
// to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{accounts: accounts, rng: rng}
}

// OnboardNewUser gives a newly created account a friendly display name.
// The username is left untouched.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if userID == "" {
		return Result{}, fmt.Errorf("userID is required")
	}

	name := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, "", name); err != nil {
		return Result{}, fmt.Errorf("failed to set display name: %w", err)
	}
	return Result{DisplayName: name}, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Patient", "Lucky", "Quiet", "Steady", "Clever", "Calm", "Nimble", "Sharp", "Wise", "Bold"}
	nouns := []string{"Dealer", "Jack", "Queen", "King", "Ace", "Joker", "Shuffler", "Stacker", "Sorter", "Player"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
