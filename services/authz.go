package services

type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSupergroup ChatKind = "supergroup"
	ChatChannel    ChatKind = "channel"
)

// Actor is whoever triggers an admin operation, together with the chat
// the request came from.
type Actor struct {
	UserID int64
	ChatID int64
	Chat   ChatKind
}

// ConsoleActor is used for requests that do not come through a chat,
// such as the HTTP API and the CLI; they count as one-to-one sessions.
func ConsoleActor(userID int64) Actor {
	return Actor{UserID: userID, ChatID: userID, Chat: ChatPrivate}
}

type Authorizer struct {
	staff       map[int64]struct{}
	adminChatID int64
}

func NewAuthorizer(staffIDs []int64, adminChatID int64) *Authorizer {
	staff := make(map[int64]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		if id != 0 {
			staff[id] = struct{}{}
		}
	}
	return &Authorizer{staff: staff, adminChatID: adminChatID}
}

func (a *Authorizer) IsStaff(userID int64) bool {
	if userID == 0 {
		return false
	}
	_, ok := a.staff[userID]
	return ok
}

// CanAdmin holds for staff members writing either in a private chat or
// in the configured admin chat.
func (a *Authorizer) CanAdmin(actor Actor) bool {
	if !a.IsStaff(actor.UserID) {
		return false
	}
	if actor.Chat == ChatPrivate {
		return true
	}
	return a.adminChatID != 0 && actor.ChatID == a.adminChatID
}

func (a *Authorizer) AdminChatID() int64 {
	return a.adminChatID
}
