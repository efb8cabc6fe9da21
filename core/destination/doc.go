// Package destination defines the page store the sync engine writes to.
//
// A Store holds pages grouped in collections. Each page is a bag of typed
// Properties. A Schema binds the logical fields of a record (name, external id,
// due date and so on) to property names and kinds, so one engine can serve
// collections with different layouts. Built-in schemas match the default
// workspace; a YAML file can rename, retype or unmap individual fields:
//
//	assignments:
//	  fields:
//	    status:
//	      property: Status
//	      kind: select
//	    link:
//	      property: ""
//
// Drivers live in core/notion (Notion REST API) and core/database (gorm).
package destination
