// Manual trigger for background jobs. Useful when a scan should not wait for
// the next cron tick, e.g. after fixing sla_configs or repairing data by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hibiken/asynq"

	"github.com/elektra-pos/elektra-pos/jobs"
)

func main() {
	redisAddr := flag.String("redis", getenv("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
	dryRun := flag.Bool("dry-run", false, "report without writing")
	flag.Parse()

	name := flag.Arg(0)
	if name == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <%s|%s>\n", os.Args[0], jobs.TaskSLAScan, jobs.TaskWorkloadReconcile)
		os.Exit(2)
	}

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: *redisAddr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect redis: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	var info *asynq.TaskInfo
	switch name {
	case jobs.TaskSLAScan:
		info, err = client.EnqueueSLAScan(ctx, jobs.SLAScanPayload{DryRun: *dryRun})
	case jobs.TaskWorkloadReconcile:
		info, err = client.EnqueueWorkloadReconcile(ctx, jobs.WorkloadReconcilePayload{DryRun: *dryRun})
	default:
		fmt.Fprintf(os.Stderr, "unsupported job %q\n", name)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "enqueue %s: %v\n", name, err)
		os.Exit(1)
	}
	fmt.Printf("enqueued %s (task id %s, queue %s)\n", name, info.ID, info.Queue)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
