package rabbitmq

// ExchangeName имя exchange для событий планов питания.
const ExchangeName = "mealplans"

// Имена очередей и ключи маршрутизации событий.
const (
	PlanExportQueue    = "plan_export_queue"
	PlanEmailQueue     = "plan_email_queue"
	PlanDeleteQueue    = "plan_delete_queue"
	AccountDeleteQueue = "account_delete_queue"

	PlanGeneratedKey  = "plan.generated"
	PlanDeletedKey    = "plan.deleted"
	AccountDeletedKey = "account.deleted"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetExportQueues возвращает очереди воркера экспорта в таблицу.
func GetExportQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PlanExportQueue, RoutingKey: PlanGeneratedKey},
		{QueueName: PlanDeleteQueue, RoutingKey: PlanDeletedKey},
		{QueueName: AccountDeleteQueue, RoutingKey: AccountDeletedKey},
	}
}

// GetEmailQueues возвращает очереди воркера рассылки планов.
func GetEmailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PlanEmailQueue, RoutingKey: PlanGeneratedKey},
	}
}
