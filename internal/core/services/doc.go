// Package services implements the driving port interfaces.
//
// Services orchestrate the analysis packages: they read the engine settings,
// fetch each required document from the document store once, enforce the
// corpus ceiling and convert failures into *domain.OperationError values.
// No state is kept between operations.
package services
