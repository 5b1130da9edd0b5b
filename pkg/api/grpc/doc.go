// Package grpc provides the gRPC endpoint of the service.
//
// It serves the standard grpc.health.v1.Health protocol and server
// reflection so that load balancers and orchestrators can probe the
// process without speaking HTTP.
package grpc
