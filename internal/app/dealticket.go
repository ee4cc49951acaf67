package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidDealTicket = errors.New("invalid deal ticket")

// DealTicket identifies a previously dealt game that may be replayed.
type DealTicket struct {
	UserID string
	Seed   int64
}

// DealTicketService signs and verifies deal tickets as HS256 JWTs.
type DealTicketService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewDealTicketService builds a ticket service. An empty issuer or non-positive ttl
// falls back to the defaults.
func NewDealTicketService(secret, issuer string, ttl time.Duration) *DealTicketService {
	if issuer == "" {
		issuer = DefaultDealTicketIssuer
	}
	if ttl <= 0 {
		ttl = DefaultDealTicketTTL
	}
	return &DealTicketService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a ticket for the deal identified by seed.
func (s *DealTicketService) Issue(userID string, seed int64) (string, error) {
	if s == nil {
		return "", fmt.Errorf("deal ticket service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("deal ticket secret is not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		// seeds use all 63 bits, more than a JSON number keeps
		"seed": strconv.FormatInt(seed, 10),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, issuer and expiry of a ticket and returns its contents.
func (s *DealTicketService) Verify(ticket string) (DealTicket, error) {
	if s == nil {
		return DealTicket{}, fmt.Errorf("deal ticket service is nil")
	}
	if len(s.secret) == 0 {
		return DealTicket{}, fmt.Errorf("deal ticket secret is not configured")
	}

	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return DealTicket{}, fmt.Errorf("%w: %v", ErrInvalidDealTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return DealTicket{}, ErrInvalidDealTicket
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return DealTicket{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidDealTicket)
	}

	userID, _ := claims["sub"].(string)
	rawSeed, _ := claims["seed"].(string)
	seed, err := strconv.ParseInt(rawSeed, 10, 64)
	if userID == "" || err != nil {
		return DealTicket{}, fmt.Errorf("%w: missing claims", ErrInvalidDealTicket)
	}
	return DealTicket{UserID: userID, Seed: seed}, nil
}
