// Package backend provides the Gotcha API server.

// This package contains the main application entry points. The actual API
// implementation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Identity token verification and profile lookup
// - internal/validation: Content moderation and input validation
// - internal/ratelimit: Sliding-window rate limiting
// - internal/ranking: External ranking service client for the default feed
// - internal/feedcache: Normalized client-side feed cache used by the CLI
// - internal/apiclient: Typed HTTP client for the API
// - internal/storage: File storage (S3) operations
// - internal/database: Database connection and migrations
// - internal/email: Comment notification emails (SES)
// - internal/middleware: HTTP middleware (rate limiting, logging, metrics)
// - internal/cache: Redis client
// - internal/seed: Demo data generation
package backend
