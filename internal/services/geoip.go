package services

import (
	"log/slog"
	"net"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// GeoIPService resolves IPs to country names for audit enrichment.
// The MaxMind database is optional; without one every lookup returns
// "Unknown" rather than failing.
type GeoIPService struct {
	logger *slog.Logger
	mu     sync.RWMutex
	reader *geoip2.Reader
}

func NewGeoIPService(dbPath string, logger *slog.Logger) *GeoIPService {
	s := &GeoIPService{logger: logger}
	if dbPath == "" {
		logger.Warn("GeoIP: no database path configured, lookups disabled")
		return s
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		logger.Warn("GeoIP: failed to open database, lookups disabled", "path", dbPath, "error", err)
		return s
	}
	s.reader = reader
	logger.Info("GeoIP: database loaded", "epoch", reader.Metadata().BuildEpoch)
	return s
}

// Close releases the database reader.
func (s *GeoIPService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		s.reader.Close()
		s.reader = nil
	}
}

// GetCountry returns the country name for an IP, or "Unknown".
func (s *GeoIPService) GetCountry(ipStr string) string {
	if ipStr == "127.0.0.1" || ipStr == "::1" {
		return "Localhost"
	}

	s.mu.RLock()
	reader := s.reader
	s.mu.RUnlock()
	if reader == nil {
		return "Unknown"
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "Unknown"
	}

	record, err := reader.Country(ip)
	if err != nil {
		s.logger.Error("GeoIP: lookup error", "ip", ipStr, "error", err)
		return "Unknown"
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		return name
	}
	if record.Country.IsoCode != "" {
		return record.Country.IsoCode
	}
	return "Unknown"
}
