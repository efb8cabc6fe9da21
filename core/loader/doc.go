// Package loader mounts HTTP features onto the fiber app.
//
// A feature names itself, says whether it should be mounted for the current
// configuration and registers its routes in Load. The sync feature is the only
// one today; it is disabled when no runner could be built from the config.
//
//	manager := loader.NewManager()
//	manager.Register(coursesync.NewFeature(service, m, true))
//	if err := manager.LoadAll(app); err != nil { ... }
//
// Features load in registration order and the first Load error aborts startup.
package loader
