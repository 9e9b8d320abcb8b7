package config

import (
	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/internal/uploads"
	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/database"
	"github.com/JaimeStill/signpost/pkg/imagesearch"
	"github.com/JaimeStill/signpost/pkg/inference"
	"github.com/JaimeStill/signpost/pkg/middleware"
	"github.com/JaimeStill/signpost/pkg/openapi"
	"github.com/JaimeStill/signpost/pkg/pagination"
	"github.com/JaimeStill/signpost/pkg/storage"
	"github.com/JaimeStill/signpost/pkg/translate"
	"github.com/JaimeStill/signpost/pkg/wiki"
)

var modelEnv = &inference.Env{
	Path:           "SIGNPOST_MODEL_PATH",
	MetadataPath:   "SIGNPOST_MODEL_METADATA_PATH",
	RuntimeLibrary: "SIGNPOST_MODEL_RUNTIME_LIBRARY",
}

var storageEnv = &storage.Env{
	Provider:         "SIGNPOST_STORAGE_PROVIDER",
	LocalRoot:        "SIGNPOST_STORAGE_LOCAL_ROOT",
	ContainerName:    "SIGNPOST_STORAGE_CONTAINER_NAME",
	ConnectionString: "SIGNPOST_STORAGE_CONNECTION_STRING",
	AccountURL:       "SIGNPOST_STORAGE_ACCOUNT_URL",
}

var databaseEnv = &database.Env{
	Enabled:         "SIGNPOST_DB_ENABLED",
	DSN:             "SIGNPOST_DB_DSN",
	Host:            "SIGNPOST_DB_HOST",
	Port:            "SIGNPOST_DB_PORT",
	Name:            "SIGNPOST_DB_NAME",
	User:            "SIGNPOST_DB_USER",
	Password:        "SIGNPOST_DB_PASSWORD",
	SSLMode:         "SIGNPOST_DB_SSL_MODE",
	MaxOpenConns:    "SIGNPOST_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SIGNPOST_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SIGNPOST_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SIGNPOST_DB_CONN_TIMEOUT",
}

var cacheEnv = &cache.Env{
	Enabled:  "SIGNPOST_CACHE_ENABLED",
	Addr:     "SIGNPOST_CACHE_ADDR",
	Password: "SIGNPOST_CACHE_PASSWORD",
	DB:       "SIGNPOST_CACHE_DB",
	TTL:      "SIGNPOST_CACHE_TTL",
}

var enrichEnv = &enrich.Env{
	Suffix:         "SIGNPOST_ENRICH_SUFFIX",
	MaxResults:     "SIGNPOST_ENRICH_MAX_RESULTS",
	FullSentences:  "SIGNPOST_ENRICH_FULL_SENTENCES",
	ShortSentences: "SIGNPOST_ENRICH_SHORT_SENTENCES",
	Search: &imagesearch.Env{
		APIKey:   "SIGNPOST_SEARCH_API_KEY",
		EngineID: "SIGNPOST_SEARCH_ENGINE_ID",
		Endpoint: "SIGNPOST_SEARCH_ENDPOINT",
		Timeout:  "SIGNPOST_SEARCH_TIMEOUT",
	},
	Summary: &wiki.Env{
		Endpoint:  "SIGNPOST_SUMMARY_ENDPOINT",
		UserAgent: "SIGNPOST_SUMMARY_USER_AGENT",
		Timeout:   "SIGNPOST_SUMMARY_TIMEOUT",
	},
	Translate: &translate.Env{
		Provider: "SIGNPOST_TRANSLATE_PROVIDER",
		Target:   "SIGNPOST_TRANSLATE_TARGET",
		APIKey:   "SIGNPOST_TRANSLATE_API_KEY",
		Endpoint: "SIGNPOST_TRANSLATE_ENDPOINT",
		Timeout:  "SIGNPOST_TRANSLATE_TIMEOUT",
	},
}

var uploadsEnv = &uploads.Env{
	PreserveFilenames: "SIGNPOST_UPLOADS_PRESERVE_FILENAMES",
	Retention:         "SIGNPOST_UPLOADS_RETENTION",
	PruneInterval:     "SIGNPOST_UPLOADS_PRUNE_INTERVAL",
}

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SIGNPOST_CORS_ENABLED",
	Origins:          "SIGNPOST_CORS_ORIGINS",
	AllowedMethods:   "SIGNPOST_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SIGNPOST_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SIGNPOST_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SIGNPOST_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SIGNPOST_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SIGNPOST_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "SIGNPOST_OPENAPI_TITLE",
	Description: "SIGNPOST_OPENAPI_DESCRIPTION",
}
