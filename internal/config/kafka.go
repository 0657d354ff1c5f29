package config

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:"," envDefault:"localhost:9092"`
	Group     string   `env:"KAFKA_GROUP" envDefault:"productstack"`
}
