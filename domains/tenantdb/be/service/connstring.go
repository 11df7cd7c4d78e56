package service

import (
	"fmt"
	"strings"
)

// WithDatabase rewrites the catalog target of an ADO-style connection string
// ("key=value;..."), preserving every other parameter and the original order.
// The key is appended when the source string carries no catalog at all.
func WithDatabase(connString, database string) string {
	parts := strings.Split(connString, ";")
	replaced := false
	out := make([]string, 0, len(parts)+1)
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, _, found := strings.Cut(part, "=")
		if found {
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "database", "initial catalog":
				out = append(out, strings.TrimSpace(key)+"="+database)
				replaced = true
				continue
			}
		}
		out = append(out, part)
	}
	if !replaced {
		out = append(out, "Database="+database)
	}
	return strings.Join(out, ";")
}

// BuildConnectionString composes the tenant-facing connection string: encrypted
// transport, server certificate validation on, bounded connect timeout.
func BuildConnectionString(host, database, login, password string) string {
	return fmt.Sprintf(
		"Server=tcp:%s,1433;Database=%s;User ID=%s;Password=%s;Encrypt=true;TrustServerCertificate=false;Connection Timeout=30",
		host, database, login, password,
	)
}
