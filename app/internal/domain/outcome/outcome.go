// Package outcome describes the uniform result of every storefront
// operation: a success flag, a message fit for the user and, for mutations,
// whether the follow-up reconciliation read went through.
package outcome

type Outcome struct {
	Success    bool
	Message    string
	Reconciled bool
}

func Succeeded(message string) Outcome {
	return Outcome{Success: true, Message: message}
}

// Failed builds the failure outcome for err.
func Failed(err error) Outcome {
	return Outcome{Success: false, Message: Message(err)}
}
