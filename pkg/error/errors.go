package error

import "net/http"

// GenericError is the contract the recovery middleware looks for when
// rendering a panic: any error that knows its own HTTP status and
// machine-readable code.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}

// BadRequestError covers malformed JSON bodies and validation failures
// at the ingress boundary (spec §7: "Invalid JSON request").
type BadRequestError string

func (err BadRequestError) Error() string   { return string(err) }
func (err BadRequestError) ErrCode() string { return "BAD_REQUEST" }
func (err BadRequestError) StatusCode() int { return http.StatusBadRequest }

// UnauthorizedError covers HMAC signature mismatches (spec §7: "Signature mismatch").
type UnauthorizedError string

func (err UnauthorizedError) Error() string   { return string(err) }
func (err UnauthorizedError) ErrCode() string { return "UNAUTHORIZED" }
func (err UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// TooManyRequestsError covers ingress admission rejection (spec §7: "Admission denied").
type TooManyRequestsError string

func (err TooManyRequestsError) Error() string   { return string(err) }
func (err TooManyRequestsError) ErrCode() string { return "TOO_MANY_REQUESTS" }
func (err TooManyRequestsError) StatusCode() int { return http.StatusTooManyRequests }

// QueueFullError covers a reject-policy overflow (spec §7: "Queue overflow").
type QueueFullError string

func (err QueueFullError) Error() string   { return string(err) }
func (err QueueFullError) ErrCode() string { return "QUEUE_FULL" }
func (err QueueFullError) StatusCode() int { return http.StatusServiceUnavailable }

// ConfigError signals a missing or invalid required configuration value;
// the process must not start (spec §7: "Config missing required value").
type ConfigError string

func (err ConfigError) Error() string   { return string(err) }
func (err ConfigError) ErrCode() string { return "CONFIG_ERROR" }
func (err ConfigError) StatusCode() int { return http.StatusInternalServerError }
