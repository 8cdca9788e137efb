package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mssola/user_agent"

	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/repository"
)

// maxAuditEntries bounds the stored trail; older entries roll off.
const maxAuditEntries = 1000

// AuditService records user actions asynchronously. Entries flow
// through a buffered channel into a single worker that enriches them
// (user agent, GeoIP) and appends them to the audit trail in the KV
// store. When the channel is full the entry is dropped, not blocked on.
type AuditService struct {
	store   repository.Store
	logger  *slog.Logger
	geoIP   *GeoIPService
	entries chan auditEvent
}

type auditEvent struct {
	entry     models.AuditLog
	userAgent string
}

func NewAuditService(store repository.Store, logger *slog.Logger, geoIP *GeoIPService) *AuditService {
	return &AuditService{
		store:   store,
		logger:  logger,
		geoIP:   geoIP,
		entries: make(chan auditEvent, 100),
	}
}

// Start runs the worker until ctx is cancelled.
func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case evt := <-s.entries:
			s.enrich(&evt.entry, evt.userAgent)
			if err := s.persist(ctx, evt.entry); err != nil {
				s.logger.Error("Failed to write audit log", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

// LogAction queues an audit entry. details is JSON-encoded; ip and
// userAgent come from the request.
func (s *AuditService) LogAction(userID, action, entityID string, details any, ip, userAgent string) {
	detailBytes, _ := json.Marshal(details)
	if string(detailBytes) == "null" {
		detailBytes = nil
	}

	evt := auditEvent{
		entry: models.AuditLog{
			UserID:    userID,
			Action:    action,
			EntityID:  entityID,
			Details:   string(detailBytes),
			IPAddress: ip,
			Timestamp: time.Now().UTC(),
		},
		userAgent: userAgent,
	}

	select {
	case s.entries <- evt:
	default:
		s.logger.Warn("Audit channel full, dropping entry", "action", action)
	}
}

func (s *AuditService) enrich(entry *models.AuditLog, rawUA string) {
	if rawUA != "" {
		ua := user_agent.New(rawUA)
		browserName, browserVer := ua.Browser()
		entry.Browser = browserName + " " + browserVer
		entry.OS = ua.OS()
		switch {
		case ua.Mobile():
			entry.DeviceType = "Mobile"
		case ua.Bot():
			entry.DeviceType = "Bot"
		default:
			entry.DeviceType = "Desktop"
		}
	}

	if s.geoIP != nil {
		entry.Country = s.geoIP.GetCountry(entry.IPAddress)
	}

	entry.IPAddress = maskIP(entry.IPAddress)
}

func (s *AuditService) persist(ctx context.Context, entry models.AuditLog) error {
	var trail []models.AuditLog
	raw, found, err := s.store.Get(ctx, repository.AuditLogKey)
	if err != nil {
		return err
	}
	if found {
		if err := json.Unmarshal(raw, &trail); err != nil {
			s.logger.Warn("Corrupt audit trail, resetting", "error", err)
			trail = nil
		}
	}

	trail = append(trail, entry)
	if len(trail) > maxAuditEntries {
		trail = trail[len(trail)-maxAuditEntries:]
	}

	out, err := json.Marshal(trail)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, repository.AuditLogKey, out)
}

// maskIP zeroes the last IPv4 octet for storage. IPv6 addresses are
// dropped entirely.
func maskIP(ip string) string {
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == '.' {
			return ip[:i] + ".0"
		}
		if ip[i] == ':' {
			return "IPv6 (Masked)"
		}
	}
	return ip
}
