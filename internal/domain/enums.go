package domain

// UserRole separates regular users from administrators.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

// SharePermission is the access level a share grants its recipient.
type SharePermission string

const (
	SharePermissionRead SharePermission = "READ"
	SharePermissionEdit SharePermission = "EDIT"
)

func (p SharePermission) String() string { return string(p) }

func (p SharePermission) IsValid() bool {
	switch p {
	case SharePermissionRead, SharePermissionEdit:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity an activity event refers to.
type EntityType string

const (
	EntityTypeUser       EntityType = "USER"
	EntityTypeNote       EntityType = "NOTE"
	EntityTypeShare      EntityType = "SHARE"
	EntityTypeAttachment EntityType = "ATTACHMENT"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeUser, EntityTypeNote, EntityTypeShare, EntityTypeAttachment:
		return true
	}
	return false
}

// EventAction is the action kind carried by a DomainEvent.
type EventAction string

const (
	EventActionLogin              EventAction = "LOGIN"
	EventActionCreateNote         EventAction = "CREATE_NOTE"
	EventActionUpdateNote         EventAction = "UPDATE_NOTE"
	EventActionArchiveNote        EventAction = "ARCHIVE_NOTE"
	EventActionShareNote          EventAction = "SHARE_NOTE"
	EventActionRevokeShareNote    EventAction = "REVOKE_SHARE_NOTE"
	EventActionUploadAttachment   EventAction = "UPLOAD_ATTACHMENT"
	EventActionDeleteAttachment   EventAction = "DELETE_ATTACHMENT"
	EventActionDownloadAttachment EventAction = "DOWNLOAD_ATTACHMENT"
	EventActionUserEnabled        EventAction = "USER_ENABLED"
	EventActionUserDisabled       EventAction = "USER_DISABLED"
	EventActionChangePassword     EventAction = "CHANGE_PASSWORD"
)

func (a EventAction) String() string { return string(a) }

func (a EventAction) IsValid() bool {
	switch a {
	case EventActionLogin, EventActionCreateNote, EventActionUpdateNote,
		EventActionArchiveNote, EventActionShareNote, EventActionRevokeShareNote,
		EventActionUploadAttachment, EventActionDeleteAttachment,
		EventActionDownloadAttachment, EventActionUserEnabled,
		EventActionUserDisabled, EventActionChangePassword:
		return true
	}
	return false
}
