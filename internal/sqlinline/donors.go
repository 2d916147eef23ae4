package sqlinline

// QListDonors takes a pre-built ILIKE pattern ($1, empty to skip) and an exact
// blood type ($2, empty to skip).
const QListDonors = `--sql 5a710581-c918-40a5-be2b-0de9b587525e
select id::text, first_name, phone_number, blood_type, city,
       latitude::float8, longitude::float8,
       coalesce(is_verified, false), coalesce(is_available, true), created_at
from public.blood
where ($1::text = '' or first_name ilike $1 or phone_number ilike $1 or city ilike $1)
  and ($2::text = '' or blood_type = $2)
order by created_at desc nulls last;
`
