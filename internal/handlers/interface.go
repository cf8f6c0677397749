package handlers

import (
	"sync"

	"passport/internal/audit"
	"passport/internal/models"
	"passport/internal/utils"

	"github.com/labstack/echo/v4"
)

// AuditSink receives audit events from the request path without blocking it.
type AuditSink interface {
	Record(event audit.Event)
}

var (
	auditSink AuditSink
	handlerMu sync.RWMutex
)

// RegisterAuditSink sets the audit sink
func RegisterAuditSink(s AuditSink) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	auditSink = s
}

// GetAuditSink returns the registered audit sink
func GetAuditSink() AuditSink {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return auditSink
}

// recordAudit emits one event for the current request. A missing sink means
// auditing is disabled; the operation proceeds either way.
func recordAudit(c echo.Context, kind, actor, entity string, snapshot any) {
	sink := GetAuditSink()
	if sink == nil {
		return
	}

	sink.Record(audit.Event{
		Kind:      kind,
		Actor:     actor,
		Entity:    entity,
		Snapshot:  snapshot,
		IPAddress: ipAddress(c),
		UserAgent: userAgent(c),
	})
}

func ipAddress(c echo.Context) string {
	if ip, ok := c.Get("ipAddress").(string); ok && ip != "" {
		return ip
	}
	return utils.GetIPAddress(c.Request())
}

func userAgent(c echo.Context) string {
	if agent, ok := c.Get("userAgent").(string); ok && agent != "" {
		return agent
	}
	return utils.GetUserAgent(c.Request())
}

// actorFromContext prefers the verified snapshot's email, falling back to
// "system" for unauthenticated flows.
func actorFromContext(c echo.Context) string {
	if token, ok := c.Get("auth").(*models.AuthToken); ok && token != nil {
		return token.Profile.Email
	}
	return "system"
}
