package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/category"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/client"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain/task"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/queue"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/repository"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/state"

	"golang.org/x/sync/errgroup"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	repository   repository.RecordRepository
	client       client.FixPriceClient
	queue        queue.Queue
	stateManager state.StateManager
	resolver     *category.Resolver
	categories   []string
	groupName    string
	minIdleTime  time.Duration
}

func NewService(
	repository repository.RecordRepository,
	client client.FixPriceClient,
	queue queue.Queue,
	stateManager state.StateManager,
	resolver *category.Resolver,
	categories []string,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		repository:   repository,
		client:       client,
		queue:        queue,
		stateManager: stateManager,
		resolver:     resolver,
		categories:   categories,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

// ParseAll probes every configured category for its page count and enqueues
// one CatalogPageTask per page. A failed probe abandons that category only;
// the other categories keep going.
func (s *Service) ParseAll(ctx context.Context) error {
	errGroup := new(errgroup.Group)

	for _, categorySlug := range s.categories {
		errGroup.Go(func() error {
			pages, err := s.client.CountPages(ctx, categorySlug)
			if err != nil {
				log.Errorf("❌ Failed to count pages for %s, skipping category: %v", categorySlug, err)
				return nil
			}

			if pages == 0 {
				log.Infof("Category %s is empty, nothing to enqueue", categorySlug)
				return nil
			}

			lastProcessedPage, err := s.stateManager.GetLastProcessedPage(ctx, categorySlug)
			if err != nil {
				log.Errorf("Failed to get last processed page: %v", err)
				return err
			}

			if lastProcessedPage > 0 {
				log.Infof("🔄 Continue from page %d for %s", lastProcessedPage+1, categorySlug)
			}

			log.Infof("🔄 Processing category %s: %d pages", categorySlug, pages)

			for pageNumber := lastProcessedPage + 1; pageNumber <= pages; pageNumber++ {
				_, err := s.queue.AddTask(ctx, &task.CatalogPageTask{
					CategorySlug: categorySlug,
					PageNumber:   pageNumber,
				})
				if err != nil {
					log.Errorf("❌ Failed to add page task for %s: %v", categorySlug, err)
					return err
				}

				if err := s.stateManager.SetLastProcessedPage(ctx, categorySlug, pageNumber); err != nil {
					log.Errorf("Failed to save progress for %s: %v", categorySlug, err)
				}
			}

			log.Infof("✅ Enqueued category %s: %d pages", categorySlug, pages)
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return err
	}

	log.Infof("✅ Enqueued all categories")
	return nil
}

// RunWorkers starts the consumer pools for every task stream. Retry streams
// get half the workers of the main streams.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	retryWorkers := max(1, numWorkers/2)

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamPrefix+"CatalogPageTask", "page")
	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamPrefix+"ItemTask", "item")
	s.runWorkersForStream(ctx, &wg, retryWorkers, queue.StreamPrefix+"PageRetryTask", "page-retry")
	s.runWorkersForStream(ctx, &wg, retryWorkers, queue.StreamPrefix+"ItemRetryTask", "item-retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						err := s.processMessage(ctx, &msg)
						if err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						err := s.processMessage(ctx, msg)
						if err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	switch taskType {
	case "CatalogPageTask":
		pageTask, err := task.UnmarshalTask[*task.CatalogPageTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal catalog page task data: %w", err)
		}
		s.processPage(ctx, pageTask.CategorySlug, pageTask.PageNumber, 0)

	case "ItemTask":
		itemTask, err := task.UnmarshalTask[*task.ItemTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal item task data: %w", err)
		}
		s.processItem(ctx, itemTask.CategorySlug, itemTask.ItemURL, 0)

	case "PageRetryTask":
		retryTask, err := task.UnmarshalTask[*task.PageRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal page retry task data: %w", err)
		}
		log.Infof("🔄 Retrying page %d for %s (attempt %d)",
			retryTask.PageNumber, retryTask.CategorySlug, retryTask.RetryCount+1)
		s.processPage(ctx, retryTask.CategorySlug, retryTask.PageNumber, retryTask.RetryCount+1)

	case "ItemRetryTask":
		retryTask, err := task.UnmarshalTask[*task.ItemRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal item retry task data: %w", err)
		}
		log.Infof("🔄 Retrying item %s (attempt %d)", retryTask.ItemURL, retryTask.RetryCount+1)
		s.processItem(ctx, retryTask.CategorySlug, retryTask.ItemURL, retryTask.RetryCount+1)

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	streamName := queue.StreamPrefix + taskType
	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

// processPage fetches one listing page and enqueues an ItemTask per summary.
// A fetch failure sends the page to the retry stream; the page task itself is
// always acked so one bad page never blocks its siblings.
func (s *Service) processPage(ctx context.Context, categorySlug string, pageNumber, retryCount int) {
	page, err := s.client.GetCatalogPage(ctx, categorySlug, pageNumber)
	if err != nil {
		retryTask := &task.PageRetryTask{
			CategorySlug: categorySlug,
			PageNumber:   pageNumber,
			RetryCount:   retryCount,
			Error:        err.Error(),
		}
		if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
			log.Errorf("❌ Failed to add page %d to retry queue: %v", pageNumber, addErr)
		} else {
			log.Warnf("🔄 Added page %d of %s to retry queue due to fetch failure: %v", pageNumber, categorySlug, err)
		}
		return
	}

	s.enqueueItems(ctx, page)
}

func (s *Service) enqueueItems(ctx context.Context, page *domain.CatalogPage) {
	for _, item := range page.Items {
		if item.URL == "" {
			log.Warnf("Skipping item without url on page %d of %s", page.PageNumber, page.CategorySlug)
			continue
		}

		_, err := s.queue.AddTask(ctx, &task.ItemTask{
			CategorySlug: page.CategorySlug,
			ItemURL:      item.URL,
		})
		if err != nil {
			log.Errorf("❌ Failed to add item task for %s: %v", item.URL, err)
		}
	}

	log.Debugf("Enqueued %d items from page %d of %s", len(page.Items), page.PageNumber, page.CategorySlug)
}

// processItem fetches one product detail, normalizes it and saves the record.
// Structurally broken payloads are dropped for good; transport and save
// failures go to the item retry stream.
func (s *Service) processItem(ctx context.Context, categorySlug, itemURL string, retryCount int) {
	section := s.resolver.Resolve(categorySlug)

	record, err := s.client.GetProductRecord(ctx, itemURL, section)
	if err != nil {
		if errors.Is(err, client.ErrInvalidItem) {
			log.Warnf("🗑 Dropping item %s: %v", itemURL, err)
			return
		}
		s.enqueueItemRetry(ctx, categorySlug, itemURL, retryCount, err, "fetch")
		return
	}

	if err := s.repository.SaveRecord(ctx, categorySlug, record); err != nil {
		s.enqueueItemRetry(ctx, categorySlug, itemURL, retryCount, err, "save")
		return
	}

	log.Debugf("Saved record %s from category %s", record.SKU, categorySlug)
}

func (s *Service) enqueueItemRetry(ctx context.Context, categorySlug, itemURL string, retryCount int, cause error, stage string) {
	retryTask := &task.ItemRetryTask{
		CategorySlug: categorySlug,
		ItemURL:      itemURL,
		RetryCount:   retryCount,
		Error:        cause.Error(),
		FailureStage: stage,
	}

	if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
		log.Errorf("❌ Failed to add item %s to retry queue: %v", itemURL, addErr)
	} else {
		log.Warnf("🔄 Added item %s to retry queue after %s failure: %v", itemURL, stage, cause)
	}
}
