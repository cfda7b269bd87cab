package types

// CloudWatch metric names and dimensions.
const (
	MetricAPILatency         = "APILatency"
	MetricAPIRequestCount    = "APIRequestCount"
	MetricExternalAPIFailure = "ExternalAPIFailure"
	MetricSpotsRanked        = "SpotsRanked"
	MetricCandidatesSkipped  = "CandidatesSkipped"
	MetricRadiusFallback     = "RadiusFallback"
	MetricLocationFallback   = "LocationFallback"
	MetricFangindexScore     = "FangindexScore"

	DimEndpoint = "Endpoint"
	DimMethod   = "Method"
	DimStatus   = "Status"
	DimProvider = "Provider"
	DimSource   = "Source"

	MetricNamespace = "Fangindex"
)
