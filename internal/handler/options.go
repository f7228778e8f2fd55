package handler

// ResponseShape selects what a successful authentication returns.
type ResponseShape string

const (
	// ResponseToken answers {message, token}.
	ResponseToken ResponseShape = "token"
	// ResponseProfile answers {message, userType, user:{name,lastName,email}}.
	ResponseProfile ResponseShape = "profile"
)

// DuplicateCheckMode selects who rejects an already registered email on create.
type DuplicateCheckMode string

const (
	// DuplicatePrecheck asks the querier before calling create.
	DuplicatePrecheck DuplicateCheckMode = "precheck"
	// DuplicateDelegate leaves the check to the store's unique constraint.
	DuplicateDelegate DuplicateCheckMode = "delegate"
)

// Options distinguishes the admin-facing route group from the self-service one.
type Options struct {
	ResponseShape  ResponseShape
	CollectAddress bool
	DuplicateCheck DuplicateCheckMode
	// ValidateCreate runs the account schema in the handler and answers with the
	// full list of failing fields.
	ValidateCreate bool
}

var AdminOptions = Options{
	ResponseShape:  ResponseToken,
	CollectAddress: true,
	DuplicateCheck: DuplicateDelegate,
	ValidateCreate: true,
}

var SelfServiceOptions = Options{
	ResponseShape:  ResponseProfile,
	CollectAddress: false,
	DuplicateCheck: DuplicatePrecheck,
	ValidateCreate: false,
}
