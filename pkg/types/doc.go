// Package types defines the identity and metadata model for the credits
// graph: node identities, the polymorphic Person/Movie/Series node variants,
// and the provider metadata documents they carry.
package types
