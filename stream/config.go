package stream

// Event names of DynamoDB stream records.
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
	EventRemove = "REMOVE"
)

// Config holds configuration for the Handler.
type Config struct {
	// EventNames are the stream event names the handler processes.
	// Records with other event names are skipped.
	// Default: INSERT, MODIFY, REMOVE
	EventNames []string

	// FailOnInvalid fails the batch on records whose images cannot be cast
	// to the schema. Otherwise they are logged and skipped.
	// Default: false
	FailOnInvalid bool
}

// DefaultConfig returns the configuration that reports every change.
func DefaultConfig() Config {
	return Config{
		EventNames: []string{EventInsert, EventModify, EventRemove},
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	var names []string
	for _, name := range c.EventNames {
		switch name {
		case EventInsert, EventModify, EventRemove:
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = DefaultConfig().EventNames
	}
	c.EventNames = names
}

func (c *Config) handles(eventName string) bool {
	for _, name := range c.EventNames {
		if name == eventName {
			return true
		}
	}
	return false
}
