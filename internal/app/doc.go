// Package app provides application initialization and dependency wiring.
// It encapsulates the creation of the hiera lookup client and the batch
// runner, making the main package cleaner and more focused on CLI parsing
// and orchestration.
package app
