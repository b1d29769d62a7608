package splitbill

type (
	// PubSubMessage is the payload of a Pub/Sub event. Bot reads the start
	// event from Data; RotateSecret only looks at the attributes.
	PubSubMessage struct {
		Attributes PubSubAttributes `json:"attributes"`
		Data       []byte           `json:"data"`
	}

	// PubSubAttributes are attributes from the Pub/Sub event. Secret Manager
	// notifications set EventType (e.g. SECRET_ROTATE) and the secret name.
	PubSubAttributes struct {
		EventType string `json:"eventType"`
		SecretID  string `json:"secretId"`
	}
)
