package core

// Default config constants
const (
	DefaultPort              = "7860"
	DefaultGinMode           = "release"
	DefaultOpenRouterAPIBase = "https://openrouter.ai/api/v1"
	DefaultOpenRouterBase    = "https://openrouter.ai"
	DefaultModel             = "openai/gpt-3.5-turbo"
	DefaultRateLimit         = 120
	CORSMaxAge               = "86400"
)

// Upstream endpoint paths, relative to the API base
const (
	ModelsPath   = "/models"
	AuthKeysPath = "/auth/keys"
	AuthPagePath = "/auth"
)

// Query parameter names
const (
	QueryParamCode        = "code"
	QueryParamModel       = "model"
	QueryParamCallbackURL = "callback_url"
)

// Upstream operation names used in errors and metrics
const (
	OpListModels   = "list_models"
	OpExchangeCode = "exchange_code"
)

// Content type and header constants
const (
	ContentTypeJSON     = "application/json"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderCacheControl  = "Cache-Control"
	CacheControlNoStore = "no-store"
	AuthBearerPrefix    = "Bearer "
)

// Role constants
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Chat display constants
const (
	GreetingMessage = "How may I assist you today?"
	SourceCodeURL   = "https://github.com/alexanderatallah/openrouter-streamlit"
)
