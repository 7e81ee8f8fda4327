package model

import "time"

// User carries the contact and display data this application needs
// when building notifications.  Accounts, credentials, roles and the
// rest of the identity lifecycle are owned by the external identity
// service; this core only ever reads users.
//
// Fields:
//  ID       – primary key identifier of the user.
//  Email    – unique email address used as the notification recipient.
//  FullName – display name rendered into mail templates.
type User struct {
	ID        uint64    // users.id
	Email     string    // users.email
	FullName  string    // users.full_name
	CreatedAt time.Time // users.created_at
}
