// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import adapters; everything outside the core
// arrives through the interfaces in ports/driven.
package services
