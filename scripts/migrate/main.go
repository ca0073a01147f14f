package main

import (
	"log"

	"github.com/fastlogix/fastlogix/pkg/config"
	"github.com/fastlogix/fastlogix/pkg/store"
)

// Creates the keyspace and tables. Run once before starting the
// services.
func main() {
	cfg := config.Load()

	sysSession, err := store.NewSession(cfg.ScyllaHosts, "system")
	if err != nil {
		log.Fatalf("Failed to connect to ScyllaDB system keyspace: %v", err)
	}

	err = sysSession.Query(`CREATE KEYSPACE IF NOT EXISTS ` + cfg.ScyllaKeyspace +
		` WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : 1 }`).Exec()
	if err != nil {
		log.Fatalf("Failed to create keyspace: %v", err)
	}
	sysSession.Close()

	session, err := store.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
	if err != nil {
		log.Fatalf("Failed to connect to ScyllaDB %s keyspace: %v", cfg.ScyllaKeyspace, err)
	}
	defer session.Close()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			conversation_id text,
			created_at timestamp,
			id bigint,
			server_id bigint,
			sender text,
			body text,
			attachment_name text,
			attachment_mime text,
			attachment_data text,
			delivery_state text,
			PRIMARY KEY (conversation_id, created_at, id)
		) WITH CLUSTERING ORDER BY (created_at ASC, id ASC)`,

		`CREATE TABLE IF NOT EXISTS orders (
			order_id text PRIMARY KEY,
			sender_name text,
			sender_email text,
			sender_address text,
			receiver_name text,
			receiver_email text,
			receiver_address text,
			package_details map<text, text>,
			status text,
			current_address text,
			current_lat double,
			current_lon double,
			created_at timestamp
		)`,

		`CREATE TABLE IF NOT EXISTS order_locations (
			order_id text,
			recorded_at timestamp,
			address text,
			lat double,
			lon double,
			PRIMARY KEY (order_id, recorded_at)
		) WITH CLUSTERING ORDER BY (recorded_at ASC)`,
	}

	for _, ddl := range tables {
		if err := session.Query(ddl).Exec(); err != nil {
			log.Fatalf("Failed to create table: %v", err)
		}
	}

	log.Println("Schema ready")
}
