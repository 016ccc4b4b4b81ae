package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/antoniolazaro/futamadeuhub/internal/domain"
	"github.com/google/uuid"
)

// scoresheet simulates the pitch-side feed of one session
type scoresheet struct {
	sessionID int64
	matchID   int64
	members   []int64
	teams     []string
}

func (s *scoresheet) event(t domain.EventType) domain.ScoresheetEvent {
	return domain.ScoresheetEvent{
		EventID:   uuid.NewString(),
		Type:      t,
		SessionID: s.sessionID,
		MatchID:   s.matchID,
	}
}

// opening emits a confirmation and a check-in for every member
func (s *scoresheet) opening() []domain.ScoresheetEvent {
	events := make([]domain.ScoresheetEvent, 0, 2*len(s.members))
	for _, id := range s.members {
		c := s.event(domain.EventConfirmation)
		c.MatchID = 0
		c.MemberID = id
		c.Confirmed = true
		events = append(events, c)

		a := s.event(domain.EventCheckin)
		a.MatchID = 0
		a.MemberID = id
		a.Present = rand.Intn(100) < 90
		events = append(events, a)
	}
	return events
}

// next emits either a team score update or a player stat line
func (s *scoresheet) next() domain.ScoresheetEvent {
	if rand.Intn(100) < 30 {
		e := s.event(domain.EventResult)
		e.Team = s.teams[rand.Intn(len(s.teams))]
		e.Goals = rand.Intn(6)
		return e
	}

	e := s.event(domain.EventPlayerStat)
	e.MemberID = s.members[rand.Intn(len(s.members))]
	e.Goals = rand.Intn(3)
	e.Assists = rand.Intn(2)
	switch n := rand.Intn(100); {
	case n < 8:
		e.YellowCards = 1
	case n < 11:
		e.BlueCards = 1
	case n < 12:
		e.RedCards = 1
	}
	return e
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid member id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no member ids given")
	}
	return ids, nil
}

func main() {
	// Command line flags
	brokers := flag.String("brokers", "localhost:9094", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "pelada-scoresheet", "Kafka topic")
	sessionID := flag.Int64("session", 1, "Session (rodada) ID")
	matchID := flag.Int64("match", 0, "Match (partida) ID, 0 for session-level facts")
	memberList := flag.String("members", "1,2,3,4,5,6,7,8,9,10", "Member IDs (comma-separated)")
	teamList := flag.String("teams", "A,B", "Team labels (comma-separated)")
	eventsPerSecond := flag.Int("rate", 5, "Events per second")
	duration := flag.Duration("duration", 0, "Duration to run (0 = forever)")
	openingOnly := flag.Bool("opening-only", false, "Only send confirmations and check-ins")
	flag.Parse()

	members, err := parseIDs(*memberList)
	if err != nil {
		log.Fatalf("Invalid -members: %v", err)
	}
	if *eventsPerSecond <= 0 {
		log.Fatalf("Invalid -rate: must be positive")
	}
	sheet := &scoresheet{
		sessionID: *sessionID,
		matchID:   *matchID,
		members:   members,
		teams:     strings.Split(*teamList, ","),
	}
	brokerList := strings.Split(*brokers, ",")

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("  ⚽ Scoresheet Event Producer")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Brokers:          %s\n", *brokers)
	fmt.Printf("  Topic:            %s\n", *topic)
	fmt.Printf("  Session:          %d\n", *sessionID)
	fmt.Printf("  Match:            %d\n", *matchID)
	fmt.Printf("  Members:          %d\n", len(members))
	fmt.Printf("  Events/sec:       %d\n", *eventsPerSecond)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	// Configure Sarama producer
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 100 * time.Millisecond
	config.Producer.Flush.Messages = 100
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokerList, config)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}

	var successCount, errorCount int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range producer.Successes() {
			atomic.AddInt64(&successCount, 1)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range producer.Errors() {
			atomic.AddInt64(&errorCount, 1)
			log.Printf("Producer error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	finish := func(reason string) {
		fmt.Printf("\n\n%s\n", reason)
		close(done)
		producer.AsyncClose()
		wg.Wait()
		fmt.Printf("\n✓ Completed. Sent: %d, Errors: %d\n", atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
	}

	// Events of one session share a key so they stay on one partition
	key := sarama.StringEncoder(strconv.FormatInt(*sessionID, 10))
	sendEvent := func(event domain.ScoresheetEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal event: %v", err)
			return
		}

		msg := &sarama.ProducerMessage{
			Topic: *topic,
			Key:   key,
			Value: sarama.ByteEncoder(data),
		}

		select {
		case producer.Input() <- msg:
		case <-done:
		}
	}

	opening := sheet.opening()
	fmt.Printf("Sending %d confirmations and check-ins...\n", len(opening))
	for _, e := range opening {
		sendEvent(e)
	}
	fmt.Printf("✓ Opened session %d\n\n", *sessionID)

	if *openingOnly {
		finish("Opening-only mode: exiting")
		return
	}

	fmt.Printf("Starting scoresheet feed (%d/sec). Press Ctrl+C to stop\n\n", *eventsPerSecond)

	ticker := time.NewTicker(time.Second / time.Duration(*eventsPerSecond))
	defer ticker.Stop()

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	var endTime time.Time
	if *duration > 0 {
		endTime = time.Now().Add(*duration)
	}

	var eventCount int64

	for {
		select {
		case <-sigChan:
			finish("Shutting down...")
			return

		case <-ticker.C:
			if *duration > 0 && time.Now().After(endTime) {
				finish("Duration reached, shutting down...")
				return
			}
			sendEvent(sheet.next())
			atomic.AddInt64(&eventCount, 1)

		case <-statsTicker.C:
			fmt.Printf("[%s] Events: %d | Sent: %d | Errors: %d\n",
				time.Now().Format("15:04:05"),
				atomic.LoadInt64(&eventCount),
				atomic.LoadInt64(&successCount),
				atomic.LoadInt64(&errorCount),
			)
		}
	}
}
