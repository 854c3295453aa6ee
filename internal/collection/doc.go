// Package collection provides small generic containers shared by internal packages.
package collection
