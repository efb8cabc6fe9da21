// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query). Disabled
//     when no key is configured; selected paths can be left public.
//   - rayid: Tags every request with a Request ID (RayID), stored in the
//     context locals and echoed in the X-Ray-ID response header.
//
// These middleware components are registered globally in the start command.
package middleware
