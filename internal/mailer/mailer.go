package mailer

import "context"

// Invitation carries everything needed to email a newly provisioned user.
type Invitation struct {
	Email        string
	FullName     string
	Role         string
	TempPassword string
	LoginURL     string
}

// Mailer sends account invitations. The concrete transport lives behind
// this interface so services and tests never touch the provider SDK.
type Mailer interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}
