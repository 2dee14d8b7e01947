package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	ShiftCtx       ContextKey = "shift"
	StaffMemberCtx ContextKey = "staffMember"
)
