package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"bloodlink/internal/export"
)

type viewerContextKey struct{}

// ViewerKey stores the Viewer in the request context.
var ViewerKey = viewerContextKey{}

// TimezoneParam names both the query parameter and the cookie carrying the
// viewer's IANA time zone.
const TimezoneParam = "tz"

// Viewer describes how dates should be shown to the current requester.
type Viewer struct {
	Locale   language.Tag
	Location *time.Location
}

// ViewerContext resolves the locale from X-Locale, then Accept-Language, and
// the time zone from the tz query parameter, then the tz cookie. Anything
// unresolvable falls back to the configured defaults.
func ViewerContext(defaultLocale language.Tag, defaultLoc *time.Location) func(http.Handler) http.Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := Viewer{
				Locale:   detectLocale(r, defaultLocale),
				Location: detectLocation(r, defaultLoc),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ViewerKey, v)))
		})
	}
}

func detectLocale(r *http.Request, fallback language.Tag) language.Tag {
	if raw := strings.TrimSpace(r.Header.Get("X-Locale")); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			return export.MatchLocale(tag)
		}
	}
	if raw := r.Header.Get("Accept-Language"); raw != "" {
		if tags, _, err := language.ParseAcceptLanguage(raw); err == nil && len(tags) > 0 {
			return export.MatchLocale(tags...)
		}
	}
	return export.MatchLocale(fallback)
}

func detectLocation(r *http.Request, fallback *time.Location) *time.Location {
	candidates := []string{r.URL.Query().Get(TimezoneParam)}
	if c, err := r.Cookie(TimezoneParam); err == nil {
		candidates = append(candidates, c.Value)
	}
	for _, name := range candidates {
		if loc := loadLocation(name); loc != nil {
			return loc
		}
	}
	return fallback
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	return loc
}

// ViewerFromContext returns the stored Viewer, or UTC with the first
// supported locale when the middleware did not run.
func ViewerFromContext(ctx context.Context) Viewer {
	if v, ok := ctx.Value(ViewerKey).(Viewer); ok {
		return v
	}
	return Viewer{Locale: export.SupportedLocales[0], Location: time.UTC}
}
