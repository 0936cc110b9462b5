// scout-events tails the search event stream for debugging and ad-hoc
// analytics. It binds an exclusive queue to the topic exchange, so running it
// does not steal events from durable consumers.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/scoutly/creatorscout/pkg/messaging"
)

var rabbitUrl = os.Getenv("RABBIT_URL")

func main() {
	prefix := flag.String("prefix", "scout", "exchange name prefix")
	flag.Parse()

	if rabbitUrl == "" {
		log.Fatalf("RABBIT_URL must be set")
	}

	conn, err := amqp.Dial(rabbitUrl)
	if err != nil {
		log.Fatalf("Failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open channel: %v", err)
	}

	err = messaging.ListenToTopic(ch, *prefix, messaging.SearchEvents, func(d amqp.Delivery) error {
		log.Printf("%s", d.Body)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to listen to topic: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
