package platnosci

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Sign computes the request signature: md5(pos_id + session_id + ts + key).
// key1 signs outbound queries, key2 verifies inbound reports.
func Sign(posID, sessionID, ts, key string) string {
	return digest(posID, sessionID, ts, key)
}

// SignReport computes the signature the gateway attaches to a report about
// a transaction: md5 over all eight values, in this order, no separators.
func SignReport(posID, sessionID, orderID, status, amount, desc, ts, key2 string) string {
	return digest(posID, sessionID, orderID, status, amount, desc, ts, key2)
}

// Timestamp renders t the way the gateway does: integer milliseconds since epoch.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func digest(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:])
}
