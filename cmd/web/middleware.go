package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/mkarvo/coachapp/internal/contexthelpers"
	"github.com/mkarvo/coachapp/internal/logging"
	"github.com/rs/cors"
)

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		headerWritten:  false,
	}
}

func (mw *statusResponseWriter) WriteHeader(statusCode int) {
	mw.ResponseWriter.WriteHeader(statusCode)

	if !mw.headerWritten {
		mw.statusCode = statusCode
		mw.headerWritten = true
	}
}

func (mw *statusResponseWriter) Write(b []byte) (int, error) {
	mw.headerWritten = true
	written, err := mw.ResponseWriter.Write(b)
	if err != nil {
		return written, fmt.Errorf("write response: %w", err)
	}
	return written, nil
}

func (mw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

		next.ServeHTTP(w, r)
	})
}

// corsPolicy allows the configured mobile-client origin with credentials so
// the session cookie survives cross-origin calls. Without configuration it
// stays permissive for development.
func (app *application) corsPolicy(next http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}
	if len(app.allowedOrigins) > 0 {
		options.AllowedOrigins = app.allowedOrigins
	} else {
		options.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(options).Handler(next)
}

func (app *application) logAndTraceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		ctx := r.Context()
		traceID := rand.Text()
		ctx = logging.WithAttrs(
			ctx,
			slog.Any("trace_id", traceID),
			slog.String("proto", proto),
			slog.String("method", method),
			slog.String("uri", uri),
		)
		r = r.WithContext(ctx)

		start := time.Now()
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")

		sw := newStatusResponseWriter(w)
		next.ServeHTTP(sw, r)

		level := slog.LevelInfo
		if sw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		app.logger.LogAttrs(r.Context(), level, "request completed",
			slog.Int("status_code", sw.statusCode), slog.Duration("duration", time.Since(start)))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if excp := recover(); excp != nil {
				err := fmt.Errorf("panic: %v\n%s", excp, string(debug.Stack()))
				app.serverError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// coachSession resolves the coach for the request's session, creating a coach
// record on first contact, and stores the ID in the request context for the
// repositories.
func (app *application) coachSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		coachID := app.sessionManager.GetInt64(ctx, "coachID")
		if coachID == 0 {
			err := app.db.ReadWrite.QueryRowContext(ctx, `
				INSERT INTO coaches DEFAULT VALUES
				RETURNING id`).Scan(&coachID)
			if err != nil {
				app.serverError(w, r, fmt.Errorf("create coach: %w", err))
				return
			}
			app.sessionManager.Put(ctx, "coachID", coachID)
			app.logger.LogAttrs(ctx, slog.LevelInfo, "created coach",
				slog.Int64("coach_id", coachID))
		}

		next.ServeHTTP(w, contexthelpers.SetCoachID(r, coachID))
	})
}

// timeout times out the request and cancels the context using http.TimeoutHandler.
// When flight recording is enabled a runtime trace is captured for timed-out requests.
func (app *application) timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if app.flightRecorder != nil && errors.Is(r.Context().Err(), context.DeadlineExceeded) {
				app.flightRecorder.CaptureTimeoutTrace(context.WithoutCancel(r.Context()))
			}
		})
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.TimeoutHandler(inner, d-(200*time.Millisecond), "timed out").ServeHTTP(w, r)
		})
	}
}
