// Package manager drops and recreates the target database.
//
// Statements are issued through the maintenance database on a dedicated
// connection, since CREATE DATABASE and DROP DATABASE cannot run inside a
// transaction block. Database names are quoted with pgx.Identifier.
//
//	mgr := manager.New()
//	err := mgr.Reset(ctx, db.NewPoolAdapter(maintenancePool), "sparkifydb")
package manager
