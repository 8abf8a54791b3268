package constants

import (
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	AppKey       contextKey = "app"
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	ParamsKey    contextKey = "params"
	LoggerKey    contextKey = "logger"
	RequestStart contextKey = "requestStart"
	RequestIDKey contextKey = "requestID"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
