package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/restofleet/pos-admin-api/internal/http/middleware"
)

func parsePathID(input string) (uint, error) {
	var n uint64
	if _, err := fmt.Sscanf(input, "%d", &n); err != nil {
		return 0, err
	}
	return uint(n), nil
}

func isConflictError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func actorIDFromRequest(r *http.Request) (uint, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0, errors.New("missing auth context")
	}
	return claims.UserID()
}
