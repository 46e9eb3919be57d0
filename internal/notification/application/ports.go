package application

import (
	"context"

	"github.com/dmehra2102/marketplace/internal/notification/domain"
)

type Directory interface {
	CustomerContact(ctx context.Context, userID int64) (domain.Contact, error)
	ManagerEmails(ctx context.Context, shopID int64) ([]string, error)
}

type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}
