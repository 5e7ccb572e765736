package application

import (
	"context"
	"log/slog"

	"github.com/offsoc/hyperswitch/internal/resource/domain"
)

type Repository interface {
	GetPayment(ctx context.Context, merchantID, paymentID string) (domain.Payment, error)
	GetRefund(ctx context.Context, merchantID, refundID string) (domain.Refund, error)
	GetDispute(ctx context.Context, merchantID, disputeID string) (domain.Dispute, error)
	GetMandate(ctx context.Context, merchantID, mandateID string) (domain.Mandate, error)
	GetPayout(ctx context.Context, merchantID, payoutID string) (domain.Payout, error)
}

// Service serves read-only views of tracked resources. It always answers
// from the locally persisted state and never triggers synchronization with
// upstream payment networks.
type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) RetrievePayment(ctx context.Context, merchantID, paymentID string) (domain.Envelope, error) {
	p, err := s.repo.GetPayment(ctx, merchantID, paymentID)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.JSONEnvelope(p)
}

func (s *Service) RetrieveRefund(ctx context.Context, merchantID, refundID string) (domain.Envelope, error) {
	r, err := s.repo.GetRefund(ctx, merchantID, refundID)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.JSONEnvelope(r)
}

func (s *Service) RetrieveDispute(ctx context.Context, merchantID, disputeID string) (domain.Envelope, error) {
	d, err := s.repo.GetDispute(ctx, merchantID, disputeID)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.JSONEnvelope(d)
}

func (s *Service) RetrieveMandate(ctx context.Context, merchantID, mandateID string) (domain.Envelope, error) {
	m, err := s.repo.GetMandate(ctx, merchantID, mandateID)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.JSONEnvelope(m)
}

func (s *Service) RetrievePayout(ctx context.Context, merchantID, payoutID string) (domain.Envelope, error) {
	p, err := s.repo.GetPayout(ctx, merchantID, payoutID)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.JSONEnvelope(p)
}
