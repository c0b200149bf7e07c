package laudo

// Evaluate 按限值表判定测量值是否合规
//
//   - 值缺失：返回 (nil, Avaliar)，与限值表内容无关
//   - 没有匹配的限值：返回 (nil, Avaliar)
//   - 值无法解析：返回 (限值, Avaliar)，已解析的限值保留
//   - 区间限值 Min ≤ v ≤ Max、标量限值 v ≤ Max 时为 Conforme，否则 Não Conforme
func Evaluate(parameter string, value Value, limits Limits) (*Limit, Verdict) {
	if !value.Valid {
		return nil, VerdictAvaliar
	}

	limit, ok := limits.Resolve(parameter)
	if !ok {
		return nil, VerdictAvaliar
	}

	v, err := ParseNumber(value.Raw)
	if err != nil {
		return &limit, VerdictAvaliar
	}

	if limit.Allows(v) {
		return &limit, VerdictConforme
	}
	return &limit, VerdictNaoConforme
}
