// Beacon is an adaptive-configuration control plane for distributed agents.
//
// Agents push runtime telemetry (latency, error flags) for a
// (service, environment) pair; Beacon evaluates a prioritized, conditional
// rule set against rolling aggregates of that telemetry and returns the
// effective runtime configuration (log verbosity, trace sampling rate,
// metric emission period) the agent should adopt.
//
// Usage:
//
//	# Start the control plane with default configuration
//	beacon run
//
//	# Start with a custom configuration file
//	beacon run --config /path/to/config.yaml
//
//	# Validate a policy file offline
//	beacon validate policy.yaml
//
//	# Run the demo traffic agent against a running control plane
//	beacon agent --url http://localhost:8080
//
//	# Show version information
//	beacon version
package main

func main() {
	Execute()
}
