package domain

// UserType classifies a user's access level within an account.
// Operator and admin are account-wide; member and viewer are scoped
// to a single VAT entity.
type UserType string

const (
	UserTypeOperator UserType = "operator"
	UserTypeAdmin    UserType = "admin"
	UserTypeMember   UserType = "member"
	UserTypeViewer   UserType = "viewer"
)

// Role codes are the string-encoded ordinals carried inside invitation
// tokens and legacy validation parameters. The numbering is a wire
// compatibility contract: 0=operator, 1=admin, 2=member, 3=viewer.
const (
	RoleCodeOperator = "0"
	RoleCodeAdmin    = "1"
	RoleCodeMember   = "2"
	RoleCodeViewer   = "3"
)

var roleCodes = map[UserType]string{
	UserTypeOperator: RoleCodeOperator,
	UserTypeAdmin:    RoleCodeAdmin,
	UserTypeMember:   RoleCodeMember,
	UserTypeViewer:   RoleCodeViewer,
}

var codeRoles = map[string]UserType{
	RoleCodeOperator: UserTypeOperator,
	RoleCodeAdmin:    UserTypeAdmin,
	RoleCodeMember:   UserTypeMember,
	RoleCodeViewer:   UserTypeViewer,
}

// Code returns the wire code for the user type. Unknown types map to the
// member code, the lowest-privilege default for invited users.
func (t UserType) Code() string {
	if code, ok := roleCodes[t]; ok {
		return code
	}
	return RoleCodeMember
}

// RequiresEntity reports whether the user type must be bound to a VAT entity.
func (t UserType) RequiresEntity() bool {
	return t == UserTypeMember || t == UserTypeViewer
}

// ParseRole maps a request role string to a UserType. Unknown or empty
// roles fall back to member.
func ParseRole(raw string) UserType {
	switch UserType(raw) {
	case UserTypeOperator, UserTypeAdmin, UserTypeMember, UserTypeViewer:
		return UserType(raw)
	default:
		return UserTypeMember
	}
}

// RoleFromCode maps a wire code back to a UserType.
func RoleFromCode(code string) (UserType, bool) {
	role, ok := codeRoles[code]
	return role, ok
}
