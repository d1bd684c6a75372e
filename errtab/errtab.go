// Package errtab names Windows Sockets error codes, so that socket failures
// reported by a platform layer can be logged symbolically.
package errtab

import "strconv"

// Entry describes one socket error code.
type Entry struct {
	Name      string
	Code      int
	Retryable bool
}

var entries = []Entry{
	{Code: 10004, Name: "WSAEINTR", Retryable: true},
	{Code: 10009, Name: "WSAEBADF"},
	{Code: 10013, Name: "WSAEACCES"},
	{Code: 10014, Name: "WSAEFAULT"},
	{Code: 10022, Name: "WSAEINVAL"},
	{Code: 10024, Name: "WSAEMFILE"},
	{Code: 10035, Name: "WSAEWOULDBLOCK", Retryable: true},
	{Code: 10036, Name: "WSAEINPROGRESS", Retryable: true},
	{Code: 10037, Name: "WSAEALREADY", Retryable: true},
	{Code: 10038, Name: "WSAENOTSOCK"},
	{Code: 10039, Name: "WSAEDESTADDRREQ"},
	{Code: 10040, Name: "WSAEMSGSIZE"},
	{Code: 10041, Name: "WSAEPROTOTYPE"},
	{Code: 10042, Name: "WSAENOPROTOOPT"},
	{Code: 10043, Name: "WSAEPROTONOSUPPORT"},
	{Code: 10044, Name: "WSAESOCKTNOSUPPORT"},
	{Code: 10045, Name: "WSAEOPNOTSUPP"},
	{Code: 10046, Name: "WSAEPFNOSUPPORT"},
	{Code: 10047, Name: "WSAEAFNOSUPPORT"},
	{Code: 10048, Name: "WSAEADDRINUSE"},
	{Code: 10049, Name: "WSAEADDRNOTAVAIL"},
	{Code: 10050, Name: "WSAENETDOWN"},
	{Code: 10051, Name: "WSAENETUNREACH"},
	{Code: 10052, Name: "WSAENETRESET", Retryable: true},
	{Code: 10053, Name: "WSAECONNABORTED", Retryable: true},
	{Code: 10054, Name: "WSAECONNRESET", Retryable: true},
	{Code: 10055, Name: "WSAENOBUFS", Retryable: true},
	{Code: 10056, Name: "WSAEISCONN"},
	{Code: 10057, Name: "WSAENOTCONN"},
	{Code: 10058, Name: "WSAESHUTDOWN"},
	{Code: 10059, Name: "WSAETOOMANYREFS"},
	{Code: 10060, Name: "WSAETIMEDOUT", Retryable: true},
	{Code: 10061, Name: "WSAECONNREFUSED"},
	{Code: 10062, Name: "WSAELOOP"},
	{Code: 10063, Name: "WSAENAMETOOLONG"},
	{Code: 10064, Name: "WSAEHOSTDOWN"},
	{Code: 10065, Name: "WSAEHOSTUNREACH"},
	{Code: 10066, Name: "WSAENOTEMPTY"},
	{Code: 10067, Name: "WSAEPROCLIM", Retryable: true},
	{Code: 10068, Name: "WSAEUSERS"},
	{Code: 10069, Name: "WSAEDQUOT"},
	{Code: 10070, Name: "WSAESTALE"},
	{Code: 10071, Name: "WSAEREMOTE"},
	{Code: 10091, Name: "WSASYSNOTREADY", Retryable: true},
	{Code: 10092, Name: "WSAVERNOTSUPPORTED"},
	{Code: 10093, Name: "WSANOTINITIALISED"},
	{Code: 10101, Name: "WSAEDISCON"},
	{Code: 11001, Name: "WSAHOST_NOT_FOUND"},
	{Code: 11002, Name: "WSATRY_AGAIN", Retryable: true},
	{Code: 11003, Name: "WSANO_RECOVERY"},
	{Code: 11004, Name: "WSANO_DATA"},
}

var (
	byCode = make(map[int]Entry, len(entries))
	byName = make(map[string]Entry, len(entries))
)

func init() {
	for _, e := range entries {
		byCode[e.Code] = e
		byName[e.Name] = e
	}
}

// Lookup returns the entry for code.
func Lookup(code int) (Entry, bool) {
	e, ok := byCode[code]
	return e, ok
}

// ByName returns the entry for a symbolic name such as "WSAECONNRESET".
func ByName(name string) (Entry, bool) {
	e, ok := byName[name]
	return e, ok
}

// String returns the symbolic name of code, or the decimal code when the
// table has no entry.
func String(code int) string {
	if e, ok := byCode[code]; ok {
		return e.Name
	}
	return strconv.Itoa(code)
}

// Retryable reports whether an operation failing with code may succeed if
// repeated. Unknown codes are not retryable.
func Retryable(code int) bool {
	return byCode[code].Retryable
}

// All returns every entry in ascending code order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
