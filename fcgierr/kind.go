// Package fcgierr enumerates the failure kinds of the FastCGI gateway and
// describes each one for logs and error pages.
package fcgierr

import (
	"strconv"
	"strings"
)

// Kind identifies a FastCGI gateway failure.
type Kind int

const (
	NoError Kind = iota

	// configuration
	NoAppBindPath
	NoBindPath
	InvalidBindPath

	// process stub
	SemaphoreOpenError
	StubPidFileCreateFailure
	StubNotResponding
	StubStartFailure
	StubBindError
	StubListenError
	StubAcceptError
	StubSocketCreationFailure
	StubConnectFailure
	StubStatFailure
	StubNoPerm
	PipeCreateFailure
	StubForkError
	StubExecFailure
	RequestSendFailure
	RequestMemoryAllocationFailure
	BuildRequestError
	ErrorResponse
	UnknownStubRequestType
	StubServerStartRequestFailure
	StubOverloadRequestFailure
	StubPollError

	// stub request handling
	RequestThreadCreateFailure
	RequestReadError
	IncompleteHeader
	InvalidRequestType
	RequestMissingOrInvalidParam
	ProcExists
	ServerSocketCreationFailure
	SetRlimitFailure
	SetNiceFailure
	InvalidParamValue
	InvalidUser
	InvalidGroup
	SetGroupFailure
	SetUserFailure
	SetChdirFailure
	NoPermission
	StatFailure
	NotExecOwner
	NoExecPermission
	WriteOtherPermission
	ChildExecFailure
	SetChrootFailure
	ChildForkFailure
	ProcDoesNotExist
	ServerBindError
	ServerListenError
	RequestIncompleteHeader

	// record parser
	InvalidVersion
	InvalidType
	InvalidRecord
	InvalidHTTPHeader
	CantMultiplex
	Overloaded
	UnknownRole

	// protocol
	InvalidServer
	InvalidResponse
	NoBufferSpace
	FilterFileOpenError
	NoAuthorization

	numKinds
)

// Entry describes a Kind.
type Entry struct {
	Name        string
	Description string
	Kind        Kind
	Retryable   bool
}

type info struct {
	name  string
	desc  string
	retry bool
}

var kinds = [numKinds]info{
	NoError: {"no_error", "no error", false},

	NoAppBindPath:   {"no_app_bind_path", "neither app-path nor bind-path is configured", false},
	NoBindPath:      {"no_bind_path", "bind-path is not configured", false},
	InvalidBindPath: {"invalid_bind_path", "bind-path is invalid", false},

	SemaphoreOpenError:             {"semaphore_open_error", "cannot open stub semaphore", false},
	StubPidFileCreateFailure:       {"stub_pid_file_create_failure", "cannot create stub pid file", false},
	StubNotResponding:              {"stub_not_responding", "stub is not responding", true},
	StubStartFailure:               {"stub_start_failure", "stub failed to start", true},
	StubBindError:                  {"stub_bind_error", "stub cannot bind its socket", false},
	StubListenError:                {"stub_listen_error", "stub cannot listen on its socket", false},
	StubAcceptError:                {"stub_accept_error", "stub failed to accept a connection", true},
	StubSocketCreationFailure:      {"stub_socket_creation_failure", "cannot create stub socket", false},
	StubConnectFailure:             {"stub_connect_failure", "cannot connect to stub", true},
	StubStatFailure:                {"stub_stat_failure", "cannot stat stub binary", false},
	StubNoPerm:                     {"stub_no_perm", "no permission to run stub", false},
	PipeCreateFailure:              {"pipe_create_failure", "cannot create pipe", false},
	StubForkError:                  {"stub_fork_error", "cannot fork stub process", true},
	StubExecFailure:                {"stub_exec_failure", "cannot exec stub process", false},
	RequestSendFailure:             {"request_send_failure", "failed to send request to stub", true},
	RequestMemoryAllocationFailure: {"request_memory_allocation_failure", "out of memory building stub request", false},
	BuildRequestError:              {"build_request_error", "cannot build stub request", false},
	ErrorResponse:                  {"error_response", "stub returned an error response", false},
	UnknownStubRequestType:         {"unknown_stub_request_type", "unknown stub request type", false},
	StubServerStartRequestFailure:  {"stub_server_start_request_failure", "stub failed to start the application", false},
	StubOverloadRequestFailure:     {"stub_overload_request_failure", "stub rejected an overload request", true},
	StubPollError:                  {"stub_poll_error", "error polling stub", true},

	RequestThreadCreateFailure:   {"request_thread_create_failure", "cannot create request thread", true},
	RequestReadError:             {"request_read_error", "error reading stub request", true},
	IncompleteHeader:             {"incomplete_header", "incomplete request header", false},
	InvalidRequestType:           {"invalid_request_type", "invalid request type", false},
	RequestMissingOrInvalidParam: {"request_missing_or_invalid_param", "request parameter missing or invalid", false},
	ProcExists:                   {"proc_exists", "application process already exists", false},
	ServerSocketCreationFailure:  {"server_socket_creation_failure", "cannot create server socket", false},
	SetRlimitFailure:             {"set_rlimit_failure", "cannot set resource limits", false},
	SetNiceFailure:               {"set_nice_failure", "cannot set process priority", false},
	InvalidParamValue:            {"invalid_param_value", "invalid parameter value", false},
	InvalidUser:                  {"invalid_user", "invalid user", false},
	InvalidGroup:                 {"invalid_group", "invalid group", false},
	SetGroupFailure:              {"set_group_failure", "cannot set group id", false},
	SetUserFailure:               {"set_user_failure", "cannot set user id", false},
	SetChdirFailure:              {"set_chdir_failure", "cannot change directory", false},
	NoPermission:                 {"no_permission", "permission denied", false},
	StatFailure:                  {"stat_failure", "cannot stat application", false},
	NotExecOwner:                 {"not_exec_owner", "application not owned by the executing user", false},
	NoExecPermission:             {"no_exec_permission", "application is not executable", false},
	WriteOtherPermission:         {"write_other_permission", "application is writable by others", false},
	ChildExecFailure:             {"child_exec_failure", "cannot exec application", false},
	SetChrootFailure:             {"set_chroot_failure", "cannot change root directory", false},
	ChildForkFailure:             {"child_fork_failure", "cannot fork application", true},
	ProcDoesNotExist:             {"proc_does_not_exist", "application process does not exist", true},
	ServerBindError:              {"server_bind_error", "application cannot bind its socket", false},
	ServerListenError:            {"server_listen_error", "application cannot listen on its socket", false},
	RequestIncompleteHeader:      {"request_incomplete_header", "incomplete stub request header", false},

	InvalidVersion:    {"invalid_version", "invalid FastCGI version", false},
	InvalidType:       {"invalid_type", "invalid FastCGI record type", false},
	InvalidRecord:     {"invalid_record", "malformed FastCGI record", false},
	InvalidHTTPHeader: {"invalid_http_header", "invalid HTTP header from application", false},
	CantMultiplex:     {"cant_mpx", "application cannot multiplex connections", false},
	Overloaded:        {"overloaded", "application is overloaded", true},
	UnknownRole:       {"unknown_role", "application does not support the role", false},

	InvalidServer:       {"invalid_server", "invalid FastCGI server", false},
	InvalidResponse:     {"invalid_response", "invalid response from FastCGI server", false},
	NoBufferSpace:       {"no_buffer_space", "no buffer space", true},
	FilterFileOpenError: {"filter_file_open_error", "cannot open filter file", false},
	NoAuthorization:     {"no_authorization", "authorizer denied the request", false},
}

var byName map[string]Kind

func init() {
	byName = make(map[string]Kind, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		byName[kinds[k].name] = k
	}
}

func (k Kind) valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the kind's snake_case name.
func (k Kind) String() string {
	if !k.valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kinds[k].name
}

// Retryable reports whether the request may succeed if sent again, for
// example after the stub restarts.
func (k Kind) Retryable() bool {
	return k.valid() && kinds[k].retry
}

// Describe returns the kind's table entry. Unknown kinds get a generic
// description.
func (k Kind) Describe() Entry {
	if !k.valid() {
		return Entry{Kind: k, Name: k.String(), Description: "unknown error"}
	}
	i := kinds[k]
	return Entry{Kind: k, Name: i.name, Description: i.desc, Retryable: i.retry}
}

// Parse resolves a kind from its name or its number.
func Parse(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k, ok := byName[s]; ok {
		return k, true
	}
	if n, err := strconv.Atoi(s); err == nil && Kind(n).valid() {
		return Kind(n), true
	}
	return 0, false
}

// All returns every kind in order.
func All() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
