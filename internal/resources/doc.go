// Package resources holds thin typed clients over one Kubernetes resource
// family each: workloads, network, storage, config, RBAC and cluster-level
// objects.
//
// Every client is bound to the kubeconfig context it was built for and
// reports that context in its errors. API failures are translated into the
// error types of internal/util: a missing object becomes *util.NotFoundError,
// a lost optimistic-concurrency race becomes *util.ConflictError and anything
// else becomes *util.TransportError wrapping the original cause.
package resources
