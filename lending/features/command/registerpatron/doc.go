// Package registerpatron implements the registration of a patron with a membership tier.
// Registering an already registered patron changes nothing.
package registerpatron
