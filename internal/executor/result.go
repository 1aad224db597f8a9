package executor

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error != nil {
			count++
		}
	}
	return count
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FailedNames returns the names of failed tasks in result order
func FailedNames(results []Result) []string {
	names := make([]string, 0)
	for _, r := range results {
		if r.Error != nil {
			names = append(names, r.Name)
		}
	}
	return names
}

// GetErrors extracts all errors from results
func GetErrors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// ByName indexes results by task name
func ByName(results []Result) map[string]Result {
	indexed := make(map[string]Result, len(results))
	for _, r := range results {
		indexed[r.Name] = r
	}
	return indexed
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	return CountFailed(results) > 0
}
