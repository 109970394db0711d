package common

func RedisKeyCurrentCycle() string {
	return "cycle:current"
}
