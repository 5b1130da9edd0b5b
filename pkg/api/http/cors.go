package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const wildcard = "*"

// CORSConfig holds the cross-origin policy.
// A "*" entry in any list allows everything for that list.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// Headers a browser may always send without listing them.
var safelistedHeaders = map[string]bool{
	"accept":           true,
	"accept-language":  true,
	"content-language": true,
	"content-type":     true,
}

type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool

	anyMethod  bool
	methods    map[string]bool
	methodList string

	anyHeader  bool
	headers    map[string]bool
	headerList string

	credentials bool
	maxAge      string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]bool),
		methods:     make(map[string]bool),
		headers:     make(map[string]bool),
		credentials: cfg.AllowCredentials,
	}

	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin == wildcard {
			p.anyOrigin = true
			continue
		}
		if origin != "" {
			p.origins[origin] = true
		}
	}

	var methods []string
	for _, method := range cfg.AllowedMethods {
		method = strings.ToUpper(strings.TrimSpace(method))
		if method == wildcard {
			p.anyMethod = true
			continue
		}
		if method != "" && !p.methods[method] {
			p.methods[method] = true
			methods = append(methods, method)
		}
	}
	p.methodList = strings.Join(methods, ", ")

	var headers []string
	for _, header := range cfg.AllowedHeaders {
		header = strings.TrimSpace(header)
		if header == wildcard {
			p.anyHeader = true
			continue
		}
		if header != "" && !p.headers[strings.ToLower(header)] {
			p.headers[strings.ToLower(header)] = true
			headers = append(headers, header)
		}
	}
	p.headerList = strings.Join(headers, ", ")

	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return p
}

func (p *corsPolicy) allowsOrigin(origin string) bool {
	return p.anyOrigin || p.origins[origin]
}

func (p *corsPolicy) allowsMethod(method string) bool {
	return p.anyMethod || p.methods[strings.ToUpper(method)]
}

// allowsHeaders checks a comma separated Access-Control-Request-Headers value
func (p *corsPolicy) allowsHeaders(requested string) bool {
	if p.anyHeader {
		return true
	}
	for _, header := range strings.Split(requested, ",") {
		header = strings.ToLower(strings.TrimSpace(header))
		if header == "" || safelistedHeaders[header] {
			continue
		}
		if !p.headers[header] {
			return false
		}
	}
	return true
}

// setOrigin writes the allow-origin headers for an admitted origin.
// A literal "*" is not valid alongside credentials, so the origin is echoed.
func (p *corsPolicy) setOrigin(h http.Header, origin string) {
	if p.anyOrigin && !p.credentials {
		h.Set("Access-Control-Allow-Origin", wildcard)
	} else {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

// corsMiddleware applies the cross-origin policy and answers preflight requests
// for mounted paths. Preflights to other paths fall through to the 404 handler.
func corsMiddleware(cfg CORSConfig, mounted func(path string) bool) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		requestedMethod := c.GetHeader("Access-Control-Request-Method")
		if c.Request.Method == http.MethodOptions && requestedMethod != "" {
			if mounted != nil && !mounted(c.Request.URL.Path) {
				c.Next()
				return
			}
			policy.preflight(c, origin, requestedMethod)
			return
		}

		if policy.allowsOrigin(origin) {
			h := c.Writer.Header()
			policy.setOrigin(h, origin)
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
		}

		c.Next()
	}
}

func (p *corsPolicy) preflight(c *gin.Context, origin, requestedMethod string) {
	requestedHeaders := c.GetHeader("Access-Control-Request-Headers")

	switch {
	case !p.allowsOrigin(origin):
		abortWithError(c, http.StatusBadRequest, CodeCORSRejected, "disallowed CORS origin", origin)
		return
	case !p.allowsMethod(requestedMethod):
		abortWithError(c, http.StatusBadRequest, CodeCORSRejected, "disallowed CORS method", requestedMethod)
		return
	case !p.allowsHeaders(requestedHeaders):
		abortWithError(c, http.StatusBadRequest, CodeCORSRejected, "disallowed CORS headers", requestedHeaders)
		return
	}

	h := c.Writer.Header()
	p.setOrigin(h, origin)

	if p.anyMethod {
		h.Set("Access-Control-Allow-Methods", strings.ToUpper(requestedMethod))
	} else {
		h.Set("Access-Control-Allow-Methods", p.methodList)
	}

	if p.anyHeader {
		if requestedHeaders != "" {
			h.Set("Access-Control-Allow-Headers", requestedHeaders)
		}
	} else if p.headerList != "" {
		h.Set("Access-Control-Allow-Headers", p.headerList)
	}

	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}

	c.AbortWithStatus(http.StatusNoContent)
}
