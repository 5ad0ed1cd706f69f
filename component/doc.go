// Package component provides lifecycle management for infrastructure
// components on top of the regkit shared-instance registry.
//
// Components are started in the order they are added. Shutdown is delegated
// to the registry, so stop order honors the registered dependency graph in
// addition to reverse add order.
package component
