package hudcli

import (
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/warpdl/warphud/common"
)

// RendererURI is a parsed renderer endpoint such as unix:///tmp/warphud.sock,
// tcp://localhost:4849 or pipe://warphud.
type RendererURI struct {
	Scheme  string
	Address string
}

const (
	SchemeUnix = "unix"
	SchemeTCP  = "tcp"
	SchemePipe = "pipe"
)

var (
	ErrEmptyURI          = errors.New("renderer URI cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
	ErrInvalidPath       = errors.New("invalid path in URI")
	ErrPipeNotSupported  = errors.New("pipe:// scheme only supported on Windows")
	ErrUnixNotSupported  = errors.New("unix:// scheme not supported on Windows")
)

// ParseRendererURI parses the WARPHUD_RENDERER_URI format.
func ParseRendererURI(raw string) (*RendererURI, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURI
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case SchemeUnix:
		return unixURI(parsed)
	case SchemeTCP:
		return tcpURI(parsed)
	case SchemePipe:
		return pipeURI(parsed)
	default:
		return nil, ErrUnsupportedScheme
	}
}

func (u *RendererURI) String() string {
	return u.Scheme + "://" + u.Address
}

func unixURI(parsed *url.URL) (*RendererURI, error) {
	if runtime.GOOS == "windows" {
		return nil, ErrUnixNotSupported
	}
	// unix://relative/path parses "relative" as the host.
	if parsed.Host != "" || !strings.HasPrefix(parsed.Path, "/") {
		return nil, ErrInvalidPath
	}
	return &RendererURI{Scheme: SchemeUnix, Address: parsed.Path}, nil
}

func tcpURI(parsed *url.URL) (*RendererURI, error) {
	host := parsed.Host
	if host == "" {
		return nil, ErrInvalidPath
	}
	_, port, err := splitHostPort(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if port == "" {
		return &RendererURI{
			Scheme:  SchemeTCP,
			Address: fmt.Sprintf("%s:%d", host, common.DefaultTCPPort),
		}, nil
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port", ErrInvalidPath)
	}
	if n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: port out of range", ErrInvalidPath)
	}
	return &RendererURI{Scheme: SchemeTCP, Address: host}, nil
}

func pipeURI(parsed *url.URL) (*RendererURI, error) {
	if runtime.GOOS != "windows" {
		return nil, ErrPipeNotSupported
	}
	name := parsed.Host
	if name == "" {
		return nil, ErrInvalidPath
	}
	if strings.HasPrefix(name, `\\.\pipe\`) {
		return &RendererURI{Scheme: SchemePipe, Address: name}, nil
	}
	return &RendererURI{Scheme: SchemePipe, Address: `\\.\pipe\` + name}, nil
}

// splitHostPort is net.SplitHostPort without the error for a missing port.
// Bare IPv6 literals without brackets are treated as a host with no port.
func splitHostPort(hostport string) (string, string, error) {
	if strings.HasPrefix(hostport, "[") {
		end := strings.Index(hostport, "]")
		if end == -1 {
			return "", "", errors.New("missing closing bracket in IPv6 address")
		}
		host, rest := hostport[:end+1], hostport[end+1:]
		if rest == "" {
			return host, "", nil
		}
		if !strings.HasPrefix(rest, ":") {
			return "", "", errors.New("invalid format after IPv6 address")
		}
		return host, rest[1:], nil
	}
	switch strings.Count(hostport, ":") {
	case 0:
		return hostport, "", nil
	case 1:
		i := strings.IndexByte(hostport, ':')
		return hostport[:i], hostport[i+1:], nil
	default:
		return hostport, "", nil
	}
}
